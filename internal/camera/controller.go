package camera

// Controller owns a camera state and caches the pose derived from it. It is
// driven from the frame loop and is not safe for concurrent use.
type Controller struct {
	cfg   Config
	state State

	pose      Pose
	poseValid bool
}

// NewController creates a controller at the initial state.
func NewController(cfg Config) *Controller {
	return &Controller{cfg: cfg, state: Initial(cfg)}
}

// Config returns the controller's configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns the current control state.
func (c *Controller) State() State { return c.state }

// Pose returns the camera pose, recomputing it only after the state changed.
func (c *Controller) Pose() Pose {
	if !c.poseValid {
		c.pose = Transform(c.cfg, c.state)
		c.poseValid = true
	}
	return c.pose
}

// Dispatch reduces an event into the controller state.
func (c *Controller) Dispatch(ev Event) {
	next := Reduce(c.cfg, c.state, ev)
	if next != c.state {
		c.state = next
		c.poseValid = false
	}
}

// SetZoom moves the zoom slider, clamped to the configured range.
func (c *Controller) SetZoom(v float64) { c.Dispatch(SetZoom{Value: v}) }

// Reset returns to the default view.
func (c *Controller) Reset() { c.Dispatch(Reset{}) }

// ZoomOut jumps to the zoom-out preset.
func (c *Controller) ZoomOut() { c.Dispatch(ZoomOut{}) }

func (c *Controller) BeginDrag(x, y float64) { c.Dispatch(BeginDrag{X: x, Y: y}) }
func (c *Controller) DragTo(x, y float64)    { c.Dispatch(DragTo{X: x, Y: y}) }
func (c *Controller) EndDrag()               { c.Dispatch(EndDrag{}) }
func (c *Controller) DragLeave()             { c.Dispatch(DragLeave{}) }

// ZoomBy nudges the zoom slider by delta.
func (c *Controller) ZoomBy(delta float64) {
	c.SetZoom(c.state.Zoom + delta)
}
