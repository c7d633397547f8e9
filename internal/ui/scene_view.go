package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/scene"
)

const (
	// Approximate pixel size of a terminal cell. Drag deltas are converted
	// to pixels so the rotation sensitivity matches a pointer device.
	cellWidthPx  = 8
	cellHeightPx = 16

	zoomKeyStep   = 50.0
	zoomWheelStep = 100.0

	// Bodies drawn larger than this many rows become filled discs.
	discThreshold = 1.0
	maxDiscRows   = 6
)

// LabelMode controls how body labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused star
	LabelAll                      // Every star and the Sun
)

// cell is one character of the canvas.
type cell struct {
	ch    rune
	color colorful.Color
	bold  bool
	depth float64
}

// SceneViewModel draws the composed scene through the camera.
type SceneViewModel struct {
	width  int
	height int
	top    int // screen row of the first canvas row

	cam    *camera.Controller
	render scene.RenderSet

	focusIdx  int // index into render.Stars, -1 = Sun
	labelMode LabelMode
}

// NewSceneViewModel creates a scene view driven by cam.
func NewSceneViewModel(cam *camera.Controller) SceneViewModel {
	return SceneViewModel{
		cam:       cam,
		focusIdx:  -1,
		labelMode: LabelFocused,
	}
}

// SetOrigin sets the screen row where the canvas starts. Mouse events
// carry screen coordinates.
func (m SceneViewModel) SetOrigin(top int) SceneViewModel {
	m.top = top
	return m
}

// SetSize updates the viewport size.
func (m SceneViewModel) SetSize(width, height int) SceneViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateRender replaces the bodies being drawn.
func (m SceneViewModel) UpdateRender(rs scene.RenderSet) SceneViewModel {
	m.render = rs
	if m.focusIdx >= len(rs.Stars) {
		m.focusIdx = -1
	}
	return m
}

// canvasHeight is the number of rows given to the scene; the rest is HUD.
func (m SceneViewModel) canvasHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m SceneViewModel) viewport() camera.Viewport {
	return camera.Viewport{
		Width:      m.width,
		Height:     m.canvasHeight(),
		CellAspect: float64(cellHeightPx) / float64(cellWidthPx),
	}
}

// Update handles camera keys and mouse input.
func (m SceneViewModel) Update(msg tea.Msg) (SceneViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "+", "=":
			m.cam.ZoomBy(zoomKeyStep)
		case "-", "_":
			m.cam.ZoomBy(-zoomKeyStep)
		case "r":
			m.cam.Reset()
		case "o":
			m.cam.ZoomOut()
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "j", "]":
			m.focusNext()
		case "k", "[":
			m.focusPrev()
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.BlurMsg:
		m.cam.DragLeave()
	}
	return m, nil
}

func (m SceneViewModel) handleMouse(msg tea.MouseMsg) {
	x, y := msg.X, msg.Y-m.top
	inCanvas := x >= 0 && y >= 0 && x < m.width && y < m.canvasHeight()
	px := float64(x * cellWidthPx)
	py := float64(y * cellHeightPx)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.cam.ZoomBy(zoomWheelStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.cam.ZoomBy(-zoomWheelStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if inCanvas {
			m.cam.BeginDrag(px, py)
		}
	case msg.Action == tea.MouseActionMotion:
		if !inCanvas {
			m.cam.DragLeave()
			return
		}
		m.cam.DragTo(px, py)
	case msg.Action == tea.MouseActionRelease:
		m.cam.EndDrag()
	}
}

func (m *SceneViewModel) focusNext() {
	if len(m.render.Stars) == 0 {
		return
	}
	m.focusIdx++
	if m.focusIdx >= len(m.render.Stars) {
		m.focusIdx = -1
	}
}

func (m *SceneViewModel) focusPrev() {
	if len(m.render.Stars) == 0 {
		return
	}
	m.focusIdx--
	if m.focusIdx < -1 {
		m.focusIdx = len(m.render.Stars) - 1
	}
}

// Focused returns the focused body; the Sun when nothing else is focused.
func (m SceneViewModel) Focused() scene.Body {
	if m.focusIdx >= 0 && m.focusIdx < len(m.render.Stars) {
		return m.render.Stars[m.focusIdx]
	}
	return m.render.Sun
}

// View renders the scene canvas and HUD.
func (m SceneViewModel) View() string {
	if m.width < 20 || m.height < 6 {
		return "Terminal too small for scene view"
	}
	return m.buildCanvas() + m.renderHUD()
}

// placed is a body after projection.
type placed struct {
	body  scene.Body
	x, y  int
	rows  float64
	depth float64
}

// reach is how many rows the body's drawing extends from its centre.
func (p placed) reach() float64 {
	var r float64
	if p.rows > discThreshold {
		r = math.Min(p.rows, maxDiscRows)
	}
	if p.body.Kind == scene.BodySun {
		r = math.Max(r, glowRadius(p))
	}
	return r
}

// project maps every body through the camera, farthest first, dropping
// those outside the depth range and those drawn entirely off the viewport.
func (m SceneViewModel) project() []placed {
	cfg := m.cam.Config()
	pose := m.cam.Pose()
	vp := m.viewport()

	var out []placed
	for _, b := range m.render.Bodies() {
		p, ok := camera.Project(pose, cfg, b.Position, vp)
		if !ok {
			continue
		}
		pl := placed{
			body:  b,
			x:     int(math.Floor(p.X)),
			y:     int(math.Floor(p.Y)),
			rows:  camera.ProjectRadius(cfg, b.Radius, p.Depth, vp),
			depth: p.Depth,
		}
		ry := pl.reach()
		if !p.Overlaps(vp, ry*cellHeightPx/cellWidthPx, ry) {
			continue
		}
		out = append(out, pl)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].depth > out[j].depth })
	return out
}

// buildCanvas renders the projected scene to a string.
func (m SceneViewModel) buildCanvas() string {
	w, h := m.width, m.canvasHeight()

	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' ', depth: math.Inf(1)}
		}
	}

	focusKey := m.Focused().Key
	bodies := m.project()

	for _, p := range bodies {
		if p.body.Kind == scene.BodySun {
			drawGlow(grid, p)
		}
		if p.rows > discThreshold {
			drawDisc(grid, p)
			continue
		}
		plot(grid, p.x, p.y, cell{ch: p.body.Glyph, color: p.body.Color, bold: p.body.Key == focusKey, depth: p.depth})
	}

	m.renderLabels(grid, bodies, focusKey)
	return renderGrid(grid)
}

func plot(grid [][]cell, x, y int, c cell) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	if c.depth > grid[y][x].depth {
		return
	}
	grid[y][x] = c
}

// drawDisc fills a circle of the projected radius. Cells are twice as tall
// as wide, so the column radius is doubled.
func drawDisc(grid [][]cell, p placed) {
	r := math.Min(p.rows, maxDiscRows)
	ry := int(math.Ceil(r))
	rx := int(math.Ceil(r * cellHeightPx / cellWidthPx))
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			nx := float64(dx) * cellWidthPx / cellHeightPx
			if nx*nx+float64(dy*dy) > r*r {
				continue
			}
			plot(grid, p.x+dx, p.y+dy, cell{ch: '█', color: p.body.Color, depth: p.depth})
		}
	}
}

func glowRadius(p placed) float64 {
	return math.Max(2, math.Min(p.rows*3, maxDiscRows*2))
}

// drawGlow shades the cells around the Sun with its glow color fading to
// black.
func drawGlow(grid [][]cell, p placed) {
	r := glowRadius(p)
	ry := int(r)
	rx := int(r * cellHeightPx / cellWidthPx)
	black := colorful.Color{}
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			nx := float64(dx) * cellWidthPx / cellHeightPx
			d := math.Sqrt(nx*nx+float64(dy*dy)) / r
			if d > 1 || (dx == 0 && dy == 0) {
				continue
			}
			shade := p.body.Color.BlendLab(black, 0.4+0.6*d).Clamped()
			plot(grid, p.x+dx, p.y+dy, cell{ch: '░', color: shade, depth: p.depth + 1e-6})
		}
	}
}

func (m SceneViewModel) renderLabels(grid [][]cell, bodies []placed, focusKey string) {
	if m.labelMode == LabelNone {
		return
	}
	labelColor := colorful.Color{R: 0.75, G: 0.75, B: 0.8}

	for _, p := range bodies {
		if p.body.Kind == scene.BodyPlanet {
			continue
		}
		focused := p.body.Key == focusKey
		if m.labelMode == LabelFocused && !focused {
			continue
		}

		text := p.body.Name
		if focused {
			text = "◄ " + text
		}
		y := p.y
		if y < 0 || y >= len(grid) {
			continue
		}
		x := p.x + 2
		for _, r := range text {
			if x >= len(grid[y]) {
				break
			}
			if x >= 0 && (grid[y][x].ch == ' ' || grid[y][x].ch == '░') {
				grid[y][x] = cell{ch: r, color: labelColor, bold: focused, depth: 0}
			}
			x++
		}
	}
}

func renderGrid(grid [][]cell) string {
	var b strings.Builder
	styles := make(map[string]lipgloss.Style)

	for _, row := range grid {
		for _, c := range row {
			if c.ch == ' ' {
				b.WriteRune(' ')
				continue
			}
			key := c.color.Hex()
			if c.bold {
				key += "b"
			}
			style, ok := styles[key]
			if !ok {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(c.color.Hex())).Bold(c.bold)
				styles[key] = style
			}
			b.WriteString(style.Render(string(c.ch)))
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func (m SceneViewModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	focused := m.Focused()
	b.WriteString(headerStyle.Render(fmt.Sprintf("%c %s", focused.Glyph, focused.Name)))
	if focused.Kind == scene.BodyStar {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render("pos "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("(%.1f, %.1f, %.1f)",
			focused.Position.X, focused.Position.Y, focused.Position.Z)))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render("planets "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.planetsOf(focused.Key))))
	}
	b.WriteString("\n")

	st := m.cam.State()
	labelName := [...]string{"off", "focus", "all"}[m.labelMode]
	b.WriteString(dimStyle.Render("Zoom:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.0f", st.Zoom)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("θ:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", st.RotX)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("φ:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", st.RotY)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Systems:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", len(m.render.Stars))))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(labelName))
	if st.Dragging {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render("⟳ dragging"))
	}

	return b.String()
}

func (m SceneViewModel) planetsOf(host string) int {
	n := 0
	for _, p := range m.render.Planets {
		if p.Host == host {
			n++
		}
	}
	return n
}
