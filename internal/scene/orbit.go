package scene

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

// PlanetRadius returns the rendered planet radius. The first applicable
// rule wins:
//
//  1. radius ratio × the host star's rendered size
//  2. Earth radii / EarthRadiiPerSun × SunScale
//  3. MinPlanetRadius
//
// Any non-finite or non-positive result is replaced by MinPlanetRadius, so
// the function is total.
func (p Params) PlanetRadius(radiusRatio, earthRadii, starRadius *float64) float64 {
	var r float64
	switch {
	case usable(radiusRatio):
		r = *radiusRatio * p.StarSize(starRadius)
	case usable(earthRadii):
		r = *earthRadii / EarthRadiiPerSun * p.SunScale
	default:
		r = p.MinPlanetRadius
	}

	if !valid(r) {
		return p.MinPlanetRadius
	}
	return r
}

// PlanetPosition returns a planet's position after elapsed time on a
// circular orbit of radius semiMajorAxis around star, tilted by
// inclinationDeg about the x axis. It is a pure function of its inputs.
func (p Params) PlanetPosition(elapsed time.Duration, semiMajorAxis, period, inclinationDeg *float64, star r3.Vec) r3.Vec {
	axis := DefaultSemiMajorAxis
	if usable(semiMajorAxis) {
		axis = *semiMajorAxis
	}
	days := DefaultPeriodDays
	if usable(period) {
		days = *period
	}
	incl := 0.0
	if inclinationDeg != nil && !math.IsNaN(*inclinationDeg) && !math.IsInf(*inclinationDeg, 0) {
		incl = degToRad(*inclinationDeg)
	}

	angle := elapsed.Seconds() / days * 2 * math.Pi * p.OrbitSpeed

	sin, cos := math.Sincos(angle)
	offset := r3.Vec{
		X: axis * cos,
		Y: axis * sin * math.Sin(incl),
		Z: axis * sin * math.Cos(incl),
	}
	return r3.Add(r3.Add(star, offset), r3.Vec{Z: p.DepthOffset})
}

// PlanetColor is orange for gas giants and blue for everything else.
func PlanetColor(t catalog.PlanetType) colorful.Color {
	if t == catalog.GasGiant {
		return colorGasGiant
	}
	return colorRocky
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
