package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// WorldUp is the up direction the camera is oriented against.
var WorldUp = r3.Vec{Y: 1}

// Pose is a camera placement looking at Target. Forward, Right and Up form
// an orthonormal view basis.
type Pose struct {
	Position r3.Vec
	Target   r3.Vec
	Forward  r3.Vec
	Right    r3.Vec
	Up       r3.Vec
}

// Transform converts a control state into a pose on a sphere of radius
// MaxZoom-Zoom around the origin, looking at the origin.
func Transform(cfg Config, s State) Pose {
	theta := degToRad(s.RotX)
	phi := degToRad(s.RotY)
	d := s.Distance(cfg)

	sinT, cosT := math.Sincos(theta)
	sinP, cosP := math.Sincos(phi)
	dir := r3.Vec{X: cosT * sinP, Y: sinT, Z: cosT * cosP}

	// Forward comes from the angles, not Target-Position, so a camera sitting
	// on the origin still has a view direction.
	forward := r3.Scale(-1, dir)
	right := r3.Cross(forward, WorldUp)
	if r3.Norm(right) < 1e-9 {
		right = r3.Vec{X: cosP, Z: -sinP}
	}
	right = r3.Unit(right)

	return Pose{
		Position: r3.Scale(d, dir),
		Forward:  forward,
		Right:    right,
		Up:       r3.Cross(right, forward),
	}
}

// Viewport is a character grid. CellAspect is a cell's height divided by
// its width; terminal cells are roughly twice as tall as they are wide.
type Viewport struct {
	Width, Height int
	CellAspect    float64
}

func (v Viewport) cellAspect() float64 {
	if v.CellAspect <= 0 {
		return 2
	}
	return v.CellAspect
}

// Projected is a point mapped into viewport cells.
type Projected struct {
	X, Y  float64 // column, row; (0,0) is the top-left corner
	Depth float64 // distance along the view direction
}

// InView reports whether the point falls inside the viewport.
func (p Projected) InView(v Viewport) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(v.Width) && p.Y < float64(v.Height)
}

// Overlaps reports whether an ellipse centred on the point, with radii rx
// columns and ry rows, reaches into the viewport.
func (p Projected) Overlaps(v Viewport, rx, ry float64) bool {
	if p.InView(v) {
		return true
	}
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx := (p.X - clamp(p.X, 0, float64(v.Width)-1)) / rx
	dy := (p.Y - clamp(p.Y, 0, float64(v.Height)-1)) / ry
	return dx*dx+dy*dy <= 1
}

// Project maps a world point through a perspective projection. ok is false
// for points outside the near/far depth range, including anything behind
// the camera.
func Project(pose Pose, cfg Config, point r3.Vec, v Viewport) (Projected, bool) {
	if v.Width <= 0 || v.Height <= 0 {
		return Projected{}, false
	}
	rel := r3.Sub(point, pose.Position)
	depth := r3.Dot(rel, pose.Forward)
	if depth <= cfg.Near || depth >= cfg.Far {
		return Projected{}, false
	}

	tanHalf := math.Tan(degToRad(cfg.FOV) / 2)
	aspect := float64(v.Width) / (float64(v.Height) * v.cellAspect())

	ndcX := r3.Dot(rel, pose.Right) / (depth * tanHalf * aspect)
	ndcY := r3.Dot(rel, pose.Up) / (depth * tanHalf)

	return Projected{
		X:     (ndcX + 1) / 2 * float64(v.Width),
		Y:     (1 - ndcY) / 2 * float64(v.Height),
		Depth: depth,
	}, true
}

// ProjectRadius converts a world-space radius at depth into rows.
func ProjectRadius(cfg Config, radius, depth float64, v Viewport) float64 {
	if depth <= 0 || v.Height <= 0 {
		return 0
	}
	tanHalf := math.Tan(degToRad(cfg.FOV) / 2)
	return radius / (depth * tanHalf) * float64(v.Height) / 2
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
