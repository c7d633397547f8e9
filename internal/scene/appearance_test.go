package scene

import (
	"math"
	"testing"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

func str(s string) *string { return &s }

func TestStarSize(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name   string
		radius *float64
		want   float64
	}{
		{"two solar radii", catalog.Float(2), 0.5},
		{"absent", nil, 0.25},
		{"zero", catalog.Float(0), 0.25},
		{"negative", catalog.Float(-1), 0.25},
		{"NaN", catalog.Float(math.NaN()), 0.25},
		{"infinite", catalog.Float(math.Inf(1)), 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.StarSize(tt.radius); got != tt.want {
				t.Errorf("StarSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStarColor(t *testing.T) {
	tests := []struct {
		name     string
		spectral *string
		temp     *float64
		want     string
	}{
		{"agreeing G star", str("G"), catalog.Float(5800), "#ffecb3"},
		{"temperature overrides spectral", str("G"), catalog.Float(40000), "#5875e1"},
		{"both absent", nil, nil, "#c0c0c0"},
		{"spectral only", str("K"), nil, "#c0c0c0"},
		{"temperature only", nil, catalog.Float(3000), "#ff7043"},
		{"lower case code", str("m"), catalog.Float(3000), "#ff7043"},
		{"too cold for ladder", str("Y"), catalog.Float(100), "#c0c0c0"},
		{"NaN temperature", str("A"), catalog.Float(math.NaN()), "#c0c0c0"},
		{"white dwarf by code", str("D"), nil, "#c0c0c0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StarColor(tt.spectral, tt.temp).Hex()
			if got != tt.want {
				t.Errorf("StarColor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSpectralColor(t *testing.T) {
	if got := SpectralColor(str("D")).Hex(); got != "#f0f0f0" {
		t.Errorf("SpectralColor(D) = %s, want #f0f0f0", got)
	}
	if got := SpectralColor(str("  ")).Hex(); got != "#c0c0c0" {
		t.Errorf("SpectralColor(blank) = %s, want grey", got)
	}
	if got := SpectralColor(str("K5V")).Hex(); got != "#ffb366" {
		t.Errorf("SpectralColor(K5V) = %s, want #ffb366", got)
	}
}

func TestTemperatureColor_Boundaries(t *testing.T) {
	tests := []struct {
		k    float64
		want string
	}{
		{33000, "#5875e1"},
		{32999, "#7fa9ff"},
		{10000, "#7fa9ff"},
		{7300, "#c0ddff"},
		{6000, "#fff8dc"},
		{5300, "#ffecb3"},
		{3900, "#ffb366"},
		{2300, "#ff7043"},
		{1300, "#ff6347"},
		{550, "#8a5a44"},
		{549, "#c0c0c0"},
	}
	for _, tt := range tests {
		if got := TemperatureColor(catalog.Float(tt.k)).Hex(); got != tt.want {
			t.Errorf("TemperatureColor(%v) = %s, want %s", tt.k, got, tt.want)
		}
	}
}
