package material

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Material describes how a surface absorbs, reflects and emits light.
// Primitives reference materials by index into the world's material list.
type Material struct {
	BaseColor core.Vec3 // Reflective color
	Emission  core.Vec3 // Emitted light color/intensity
	Roughness float64   // Spread of the random reflection perturbation (0 = mirror)
	Metallic  float64   // Controls how strongly BaseColor attenuates reflected light
}

// NewMaterial creates a new material
func NewMaterial(baseColor, emission core.Vec3, roughness, metallic float64) Material {
	return Material{
		BaseColor: baseColor,
		Emission:  emission,
		Roughness: roughness,
		Metallic:  metallic,
	}
}

// Absorption returns the factor multiplied into a path's attenuation after it
// bounces off this material: base_color * (1 - (0.5 + 0.5*metallic)).
func (m Material) Absorption() core.Vec3 {
	return m.BaseColor.Multiply(1 - (0.5 + 0.5*m.Metallic))
}

// IsEmissive reports whether the material emits any light
func (m Material) IsEmissive() bool {
	return m.Emission.X > 0 || m.Emission.Y > 0 || m.Emission.Z > 0
}

// Scatter returns the outgoing direction for a ray with the given unit direction hitting a
// surface with the given unit normal. The perfect mirror reflection is perturbed by a random
// unit vector scaled by Roughness and renormalized. When the perturbation cancels the
// reflection exactly, the unperturbed reflection is returned.
func (m Material) Scatter(direction, normal core.Vec3, random *rand.Rand) core.Vec3 {
	reflected := direction.Reflect(normal)
	if m.Roughness == 0 {
		return reflected
	}

	perturbed := reflected.Add(core.RandomUnitVector(random).Multiply(m.Roughness))
	if perturbed.LengthSquared() < 1e-12 {
		return reflected
	}
	return perturbed.Normalize()
}
