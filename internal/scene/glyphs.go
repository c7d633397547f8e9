package scene

import (
	"math/rand"
	"sync"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

// GlyphProvider chooses the glyph a body is drawn with. It stands in for the
// surface texture of a 3D renderer.
type GlyphProvider interface {
	StarGlyph(hostname string) rune
	PlanetGlyph(t catalog.PlanetType) rune
}

// StarGlyphs is the fixed set star glyphs are drawn from.
var StarGlyphs = []rune{'✶', '✷', '✸', '✹', '✺', '✦', '✧', '⁕'}

var planetGlyphs = map[catalog.PlanetType]rune{
	catalog.GasGiant:    '◉',
	catalog.NeptuneLike: '◍',
	catalog.SuperEarth:  '●',
	catalog.Terrestrial: '•',
}

// RandomGlyphs picks a random star glyph the first time a host is seen and
// keeps it for the host afterwards, so stars do not flicker between frames.
type RandomGlyphs struct {
	mu     sync.Mutex
	rng    *rand.Rand
	chosen map[string]rune
}

// NewRandomGlyphs creates a provider drawing from rng.
func NewRandomGlyphs(rng *rand.Rand) *RandomGlyphs {
	return &RandomGlyphs{
		rng:    rng,
		chosen: make(map[string]rune),
	}
}

// StarGlyph implements GlyphProvider.
func (g *RandomGlyphs) StarGlyph(hostname string) rune {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.chosen[hostname]; ok {
		return r
	}
	r := StarGlyphs[g.rng.Intn(len(StarGlyphs))]
	g.chosen[hostname] = r
	return r
}

// PlanetGlyph implements GlyphProvider with a type-keyed lookup.
func (g *RandomGlyphs) PlanetGlyph(t catalog.PlanetType) rune {
	return PlanetGlyph(t)
}

// PlanetGlyph returns the glyph for a planet type.
func PlanetGlyph(t catalog.PlanetType) rune {
	if r, ok := planetGlyphs[t]; ok {
		return r
	}
	return '∘'
}
