// Package scene turns grouped catalog data into per-frame render
// descriptors: star and planet positions, sizes and colors.
package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Params are the scale and animation constants of the scene.
type Params struct {
	// StarScale converts a star radius in solar radii to scene units. Stars
	// without a usable radius are drawn at exactly StarScale.
	StarScale float64

	// SunScale is the rendered radius of the Sun; one Earth radius is
	// SunScale/EarthRadiiPerSun.
	SunScale float64

	// MinPlanetRadius is used when no planet size can be derived.
	MinPlanetRadius float64

	// OrbitSpeed multiplies the angular rate of every orbit. With 1 a
	// planet completes one orbit per period seconds of elapsed time.
	OrbitSpeed float64

	// DepthOffset is added to the z axis of every body so the scene sits
	// in front of the default camera.
	DepthOffset float64
}

// EarthRadiiPerSun approximates the Sun/Earth radius ratio.
const EarthRadiiPerSun = 109.0

// Fallbacks for planets lacking orbital data.
const (
	DefaultSemiMajorAxis = 1.0
	DefaultPeriodDays    = 365.0
)

// DefaultParams returns the canonical constant set.
func DefaultParams() Params {
	return Params{
		StarScale:       0.25,
		SunScale:        0.25,
		MinPlanetRadius: 0.05,
		OrbitSpeed:      2,
		DepthOffset:     99,
	}
}

// Fixed palette.
var (
	colorGrey     = mustHex("#c0c0c0")
	colorGasGiant = mustHex("#ffa500")
	colorRocky    = mustHex("#0000ff")
	colorSunGlow  = mustHex("#faa04d")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// usable reports whether an optional value is finite and positive.
func usable(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v > 0
}

func valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
