package camera

import "math"

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// BeginDrag starts a drag at pointer position (X, Y) in pixels.
type BeginDrag struct{ X, Y float64 }

// DragTo moves the pointer during a drag.
type DragTo struct{ X, Y float64 }

// EndDrag releases the pointer.
type EndDrag struct{}

// DragLeave is sent when the pointer leaves the view mid-drag.
type DragLeave struct{}

// SetZoom moves the zoom slider.
type SetZoom struct{ Value float64 }

// Reset returns to the default zoom with no rotation.
type Reset struct{}

// ZoomOut jumps to the zoom-out preset with no rotation.
type ZoomOut struct{}

func (BeginDrag) isEvent() {}
func (DragTo) isEvent()    {}
func (EndDrag) isEvent()   {}
func (DragLeave) isEvent() {}
func (SetZoom) isEvent()   {}
func (Reset) isEvent()     {}
func (ZoomOut) isEvent()   {}

// Reduce applies one event to a state and returns the new state. Unknown
// events leave the state unchanged.
func Reduce(cfg Config, s State, ev Event) State {
	switch e := ev.(type) {
	case SetZoom:
		if math.IsNaN(e.Value) {
			return s
		}
		s.Zoom = clamp(e.Value, cfg.MinZoom, cfg.MaxZoom)

	case BeginDrag:
		s.Dragging = true
		s.LastX, s.LastY = e.X, e.Y

	case DragTo:
		if !s.Dragging {
			return s
		}
		s.RotY += (e.X - s.LastX) * cfg.Sensitivity
		s.RotX -= (e.Y - s.LastY) * cfg.Sensitivity
		s.LastX, s.LastY = e.X, e.Y

	case EndDrag, DragLeave:
		s.Dragging = false

	case Reset:
		s.Zoom = cfg.DefaultZoom
		s.RotX, s.RotY = 0, 0
		s.Dragging = false

	case ZoomOut:
		s.Zoom = cfg.ZoomOutPreset
		s.RotX, s.RotY = 0, 0
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
