// Package camera is the orbit camera: a reducer over zoom and drag events
// and the spherical-to-Cartesian transform that places the camera around
// the origin.
package camera

// Config holds the camera limits and lens.
type Config struct {
	MinZoom       float64 `mapstructure:"minZoom"`
	MaxZoom       float64 `mapstructure:"maxZoom"`
	DefaultZoom   float64 `mapstructure:"defaultZoom"`
	ZoomOutPreset float64 `mapstructure:"zoomOutPreset"`
	Sensitivity   float64 `mapstructure:"sensitivity"` // degrees per pixel of drag
	FOV           float64 `mapstructure:"fov"`         // vertical, degrees
	Near          float64 `mapstructure:"near"`
	Far           float64 `mapstructure:"far"`
}

// DefaultConfig returns the stock camera.
func DefaultConfig() Config {
	return Config{
		MinZoom:       0,
		MaxZoom:       3000,
		DefaultZoom:   2900,
		ZoomOutPreset: 2200,
		Sensitivity:   0.05,
		FOV:           70,
		Near:          0.1,
		Far:           3000 + 1000,
	}
}

// State is the camera's control state. Angles are in degrees.
type State struct {
	Zoom     float64
	RotX     float64 // θ, vertical
	RotY     float64 // φ, horizontal
	LastX    float64
	LastY    float64
	Dragging bool
}

// Initial returns the state a fresh camera starts in.
func Initial(cfg Config) State {
	return State{Zoom: cfg.DefaultZoom}
}

// Distance is the camera's distance from the origin.
func (s State) Distance(cfg Config) float64 {
	return cfg.MaxZoom - s.Zoom
}
