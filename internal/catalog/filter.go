package catalog

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMaxDistance is sent when a filter request carries no constraint.
// An unconstrained request means "apply the default range", not "return
// everything".
const DefaultMaxDistance = 8600.0

// ErrInvalidCriteria is returned by Criteria.Validate.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// DiscoveryMethod is a detection technique accepted by the filter service.
type DiscoveryMethod string

const (
	MethodTransit        DiscoveryMethod = "Transit"
	MethodRadialVelocity DiscoveryMethod = "Radial Velocity"
	MethodImaging        DiscoveryMethod = "Imaging"
	MethodMicrolensing   DiscoveryMethod = "Microlensing"
	MethodTransitTiming  DiscoveryMethod = "Transit Timing Variations"
	MethodAstrometry     DiscoveryMethod = "Astrometry"
)

// DiscoveryMethods lists the methods in display order.
var DiscoveryMethods = []DiscoveryMethod{
	MethodTransit,
	MethodRadialVelocity,
	MethodImaging,
	MethodMicrolensing,
	MethodTransitTiming,
	MethodAstrometry,
}

// Valid reports whether m is a known discovery method.
func (m DiscoveryMethod) Valid() bool {
	for _, known := range DiscoveryMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Criteria is a sparse set of filter constraints. Nil fields impose no
// constraint.
type Criteria struct {
	MaxDistance       *float64         // light-years
	TelescopeDiameter *float64         // meters
	Wavelength        *float64         // micrometers
	ESIThreshold      *float64         // 0..1
	DiscoveryMethod   *DiscoveryMethod
}

// IsEmpty reports whether no constraint is set.
func (c Criteria) IsEmpty() bool {
	return c.MaxDistance == nil && c.TelescopeDiameter == nil &&
		c.Wavelength == nil && c.ESIThreshold == nil && c.DiscoveryMethod == nil
}

// Validate checks field ranges.
func (c Criteria) Validate() error {
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"max_distance", c.MaxDistance},
		{"telescope_diameter", c.TelescopeDiameter},
		{"wavelength", c.Wavelength},
	} {
		if f.v == nil {
			continue
		}
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) || *f.v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidCriteria, f.name, *f.v)
		}
	}

	if c.ESIThreshold != nil {
		esi := *c.ESIThreshold
		if math.IsNaN(esi) || esi < 0 || esi > 1 {
			return fmt.Errorf("%w: esi_threshold must be within [0, 1], got %v", ErrInvalidCriteria, esi)
		}
	}

	if c.DiscoveryMethod != nil && !c.DiscoveryMethod.Valid() {
		return fmt.Errorf("%w: unknown discovery_method %q", ErrInvalidCriteria, *c.DiscoveryMethod)
	}
	return nil
}

// FilterRequest is the JSON body of the combined filter endpoint.
type FilterRequest struct {
	MaxDistance       *float64         `json:"max_distance,omitempty"`
	TelescopeDiameter *float64         `json:"telescope_diameter,omitempty"`
	Wavelength        *float64         `json:"wavelength,omitempty"`
	ESIThreshold      *float64         `json:"esi_threshold,omitempty"`
	DiscoveryMethod   *DiscoveryMethod `json:"discovery_method,omitempty"`
}

// RequestBody builds the request body, substituting DefaultMaxDistance when
// no field is set.
func (c Criteria) RequestBody() FilterRequest {
	if c.IsEmpty() {
		d := DefaultMaxDistance
		return FilterRequest{MaxDistance: &d}
	}
	return FilterRequest{
		MaxDistance:       c.MaxDistance,
		TelescopeDiameter: c.TelescopeDiameter,
		Wavelength:        c.Wavelength,
		ESIThreshold:      c.ESIThreshold,
		DiscoveryMethod:   c.DiscoveryMethod,
	}
}

// Float returns a pointer to v, for building criteria and rows in literals.
func Float(v float64) *float64 {
	return &v
}
