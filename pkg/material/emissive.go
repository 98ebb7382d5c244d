package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// NewLight creates a purely emissive material. The sky material (index 0 of every
// world) is usually a light: its emission is what escaping rays collect.
func NewLight(emission core.Vec3) Material {
	return Material{
		BaseColor: core.Vec3{},
		Emission:  emission,
		Roughness: 1,
		Metallic:  0,
	}
}
