package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PointLight is an omnidirectional light with a linear falloff to zero at Range
type PointLight struct {
	Position core.Vec3
	Color    core.Vec3
	Range    float64
}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3, lightRange float64) PointLight {
	return PointLight{
		Position: position,
		Color:    color,
		Range:    lightRange,
	}
}

// Falloff returns 1 - min(distance/range, 1). A non-positive range contributes nothing.
func (l PointLight) Falloff(distance float64) float64 {
	if l.Range <= 0 {
		return 0
	}
	return 1 - math.Min(distance/l.Range, 1)
}
