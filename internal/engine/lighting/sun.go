// Package lighting describes the light the book is shaded with.
package lighting

import (
	stdmath "math"

	"github.com/Faultbox/folio/pkg/math"
)

// Sun is a directional light placed by compass angles in degrees.
// Longitude turns about Y from +Z toward +X, latitude is the elevation
// above the horizon.
type Sun struct {
	Longitude float64 `yaml:"longitude"`
	Latitude  float64 `yaml:"latitude"`
	Ambient   float64 `yaml:"ambient"` // grey level, 0 to 1
	Diffuse   float64 `yaml:"diffuse"`
}

// DefaultSun is a soft key light from the upper front left.
func DefaultSun() Sun {
	return Sun{Longitude: -34, Latitude: 54, Ambient: 0.55, Diffuse: 0.6}
}

// ToSun returns the unit vector pointing from the scene toward the sun.
func (s Sun) ToSun() math.Vec3 {
	lon := math.DegToRad(s.Longitude)
	lat := math.DegToRad(s.Latitude)
	return math.Vec3{
		X: stdmath.Cos(lat) * stdmath.Sin(lon),
		Y: stdmath.Sin(lat),
		Z: stdmath.Cos(lat) * stdmath.Cos(lon),
	}
}

// Direction returns the unit vector the light travels along.
func (s Sun) Direction() math.Vec3 {
	return s.ToSun().Scale(-1)
}
