package scene

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// StarSize returns the rendered radius for a star of the given radius in
// solar radii.
func (p Params) StarSize(starRadius *float64) float64 {
	if usable(starRadius) {
		return *starRadius * p.StarScale
	}
	return p.StarScale
}

var spectralColors = map[byte]colorful.Color{
	'O': mustHex("#5875e1"), // blue
	'B': mustHex("#7fa9ff"), // bluish white
	'A': mustHex("#c0ddff"), // white
	'F': mustHex("#fff8dc"), // yellowish white
	'G': mustHex("#ffecb3"), // yellow
	'K': mustHex("#ffb366"), // light orange
	'M': mustHex("#ff7043"), // orangish red
	'L': mustHex("#ff6347"), // red-brown
	'T': mustHex("#8a5a44"), // dark brown
	'D': mustHex("#f0f0f0"), // white dwarf
}

// temperatureLadder maps minimum effective temperature to spectral class,
// hottest first.
var temperatureLadder = []struct {
	minK  float64
	class byte
}{
	{33000, 'O'},
	{10000, 'B'},
	{7300, 'A'},
	{6000, 'F'},
	{5300, 'G'},
	{3900, 'K'},
	{2300, 'M'},
	{1300, 'L'},
	{550, 'T'},
}

// SpectralColor returns the hue for a spectral class code. Only the first
// letter counts; unknown or absent codes are grey.
func SpectralColor(spectralType *string) colorful.Color {
	if spectralType == nil {
		return colorGrey
	}
	code := strings.ToUpper(strings.TrimSpace(*spectralType))
	if code == "" {
		return colorGrey
	}
	if c, ok := spectralColors[code[0]]; ok {
		return c
	}
	return colorGrey
}

// TemperatureColor returns the hue of the spectral class matching an
// effective temperature in kelvin. Absent or NaN temperatures are grey.
func TemperatureColor(temperature *float64) colorful.Color {
	if temperature == nil || math.IsNaN(*temperature) {
		return colorGrey
	}
	for _, step := range temperatureLadder {
		if *temperature >= step.minK {
			return spectralColors[step.class]
		}
	}
	return colorGrey
}

// StarColor resolves a star's color. Temperature overrides the spectral
// type whenever the two disagree; when they agree, including both being
// grey, the spectral color is used.
func StarColor(spectralType *string, temperature *float64) colorful.Color {
	spectral := SpectralColor(spectralType)
	thermal := TemperatureColor(temperature)
	if spectral != thermal {
		return thermal
	}
	return spectral
}
