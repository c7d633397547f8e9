package scene

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

// BodyKind categorizes render descriptors.
type BodyKind int

const (
	BodySun BodyKind = iota
	BodyStar
	BodyPlanet
)

// String returns the body kind name.
func (k BodyKind) String() string {
	switch k {
	case BodySun:
		return "sun"
	case BodyStar:
		return "star"
	case BodyPlanet:
		return "planet"
	default:
		return "unknown"
	}
}

// Body is one thing to draw this frame. Key is stable across frames:
// the hostname for stars, hostname-index for planets.
type Body struct {
	Key      string
	Kind     BodyKind
	Name     string
	Host     string
	Position r3.Vec
	Radius   float64
	Color    colorful.Color
	Glyph    rune
	Type     catalog.PlanetType // planets only
}

// RenderSet is the output of one composition pass.
type RenderSet struct {
	Elapsed time.Duration
	Sun     Body
	Stars   []Body
	Planets []Body
}

// Bodies returns the Sun, stars and planets in draw order.
func (rs RenderSet) Bodies() []Body {
	out := make([]Body, 0, 1+len(rs.Stars)+len(rs.Planets))
	out = append(out, rs.Sun)
	out = append(out, rs.Stars...)
	out = append(out, rs.Planets...)
	return out
}

// Composer builds render sets from grouped systems.
type Composer struct {
	params Params
	glyphs GlyphProvider
}

// NewComposer creates a composer. glyphs may be nil, in which case every
// star uses the first glyph of StarGlyphs.
func NewComposer(params Params, glyphs GlyphProvider) *Composer {
	return &Composer{params: params, glyphs: glyphs}
}

// Params returns the composer's constants.
func (c *Composer) Params() Params {
	return c.params
}

// Compose emits descriptors for every system with a complete star position,
// with planets placed at elapsed time. Systems without a position are
// skipped entirely.
func (c *Composer) Compose(systems catalog.SystemMap, elapsed time.Duration) RenderSet {
	rs := RenderSet{
		Elapsed: elapsed,
		Sun:     c.sun(),
	}

	for _, sys := range systems.Systems() {
		starPos, ok := sys.Star.Position()
		if !ok {
			continue
		}
		host := sys.Hostname()

		rs.Stars = append(rs.Stars, Body{
			Key:      host,
			Kind:     BodyStar,
			Name:     host,
			Host:     host,
			Position: r3.Add(starPos, r3.Vec{Z: c.params.DepthOffset}),
			Radius:   c.params.StarSize(sys.Star.StarRadius),
			Color:    StarColor(sys.Star.SpectralType, sys.Star.StarTemp),
			Glyph:    c.starGlyph(host),
		})

		for i, planet := range sys.Planets {
			rs.Planets = append(rs.Planets, Body{
				Key:      fmt.Sprintf("%s-%d", host, i),
				Kind:     BodyPlanet,
				Name:     planet.Name,
				Host:     host,
				Position: c.params.PlanetPosition(elapsed, planet.SemiMajorAxis, planet.Period, planet.Inclination, starPos),
				Radius:   c.params.PlanetRadius(planet.RadiusRatio, planet.EarthRadii, sys.Star.StarRadius),
				Color:    PlanetColor(planet.Type),
				Glyph:    c.planetGlyph(planet.Type),
				Type:     planet.Type,
			})
		}
	}

	return rs
}

func (c *Composer) sun() Body {
	return Body{
		Key:      "SUN",
		Kind:     BodySun,
		Name:     "SUN",
		Position: r3.Vec{Z: c.params.DepthOffset},
		Radius:   c.params.SunScale,
		Color:    colorSunGlow,
		Glyph:    '☉',
	}
}

func (c *Composer) starGlyph(host string) rune {
	if c.glyphs == nil {
		return StarGlyphs[0]
	}
	return c.glyphs.StarGlyph(host)
}

func (c *Composer) planetGlyph(t catalog.PlanetType) rune {
	if c.glyphs == nil {
		return PlanetGlyph(t)
	}
	return c.glyphs.PlanetGlyph(t)
}
