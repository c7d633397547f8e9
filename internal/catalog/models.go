// Package catalog holds exoplanet catalog records, host-star grouping and
// the client for the remote catalog/filter service.
package catalog

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// PlanetType is the coarse planet classification reported by the catalog.
type PlanetType int

const (
	UnknownType PlanetType = iota
	GasGiant
	Terrestrial
	NeptuneLike
	SuperEarth
)

// String returns the catalog spelling of the planet type.
func (t PlanetType) String() string {
	switch t {
	case GasGiant:
		return "Gas Giant"
	case Terrestrial:
		return "Terrestrial"
	case NeptuneLike:
		return "Neptune-like"
	case SuperEarth:
		return "Super Earth"
	default:
		return "Unknown"
	}
}

// ParsePlanetType maps a catalog pl_type string to a PlanetType.
// The service spells gas giants in the plural; both forms are accepted.
func ParsePlanetType(s string) PlanetType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gas giant", "gas giants":
		return GasGiant
	case "terrestrial":
		return Terrestrial
	case "neptune-like", "neptune like":
		return NeptuneLike
	case "super earth", "super-earth":
		return SuperEarth
	default:
		return UnknownType
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t PlanetType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PlanetType) UnmarshalText(b []byte) error {
	*t = ParsePlanetType(string(b))
	return nil
}

// Row is one exoplanet record. Optional numeric fields are nil when the
// catalog has no value for them.
type Row struct {
	Hostname string     `json:"hostname"`
	Name     string     `json:"pl_name"`
	Type     PlanetType `json:"pl_type"`

	SemiMajorAxis *float64 `json:"pl_orbsmax"` // AU
	EarthRadii    *float64 `json:"pl_rade"`
	RadiusRatio   *float64 `json:"pl_ratror"` // planet radius / star radius
	Period        *float64 `json:"pl_orbper"` // days
	Inclination   *float64 `json:"pl_orbincl"` // degrees

	StarTemp     *float64 `json:"st_teff"` // K
	StarRadius   *float64 `json:"st_rad"`  // solar radii
	SpectralType *string  `json:"st_spectype_cleaned"`

	X *float64 `json:"cartesian_x"`
	Y *float64 `json:"cartesian_y"`
	Z *float64 `json:"cartesian_z"`

	Distance        *float64 `json:"sy_dist,omitempty"`
	DiscoveryMethod *string  `json:"discoverymethod,omitempty"`
}

// Position returns the star's Cartesian position. ok is false unless all
// three coordinates are present and finite; partial triples are never used.
func (r Row) Position() (pos r3.Vec, ok bool) {
	if !finite(r.X) || !finite(r.Y) || !finite(r.Z) {
		return r3.Vec{}, false
	}
	return r3.Vec{X: *r.X, Y: *r.Y, Z: *r.Z}, true
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// StarSystem is a host star and the planets recorded for it.
type StarSystem struct {
	Star    Row   // first row seen for the host
	Planets []Row // in catalog order
}

// Hostname returns the host star name.
func (s StarSystem) Hostname() string {
	return s.Star.Hostname
}

// SystemMap maps host names to star systems, remembering first-appearance
// order. A SystemMap is never modified after Group returns it.
type SystemMap struct {
	hosts  []string
	byHost map[string]*StarSystem
}

// Len returns the number of systems.
func (m SystemMap) Len() int {
	return len(m.hosts)
}

// Hosts returns host names in first-appearance order.
func (m SystemMap) Hosts() []string {
	out := make([]string, len(m.hosts))
	copy(out, m.hosts)
	return out
}

// Get returns the system for a host.
func (m SystemMap) Get(host string) (StarSystem, bool) {
	s, ok := m.byHost[host]
	if !ok {
		return StarSystem{}, false
	}
	return *s, true
}

// Systems returns all systems in host order.
func (m SystemMap) Systems() []StarSystem {
	out := make([]StarSystem, 0, len(m.hosts))
	for _, h := range m.hosts {
		out = append(out, *m.byHost[h])
	}
	return out
}

// PlanetCount returns the total number of planet rows across all systems.
func (m SystemMap) PlanetCount() int {
	n := 0
	for _, s := range m.byHost {
		n += len(s.Planets)
	}
	return n
}
