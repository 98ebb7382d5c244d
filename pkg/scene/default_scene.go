package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewDefaultScene creates a dim room with a metallic cube, a mirror sphere and two
// emissive spheres over a blue floor
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := resolveCamera(geometry.CameraConfig{
		Position:      core.NewVec3(0, 2, 6),
		Target:        core.NewVec3(0, 0, 0),
		PlaneDistance: 2,
	}, cameraOverrides...)

	// Sky color doubles as ambient light
	world := NewWorld(material.NewLight(core.NewVec3(0.1, 0.1, 0.15)))

	floor := world.AddMaterial(material.NewMaterial(material.FromBytes(88, 117, 167), core.Vec3{}, 0.8, 0.0))
	silver := world.AddMaterial(material.NewMaterial(material.FromBytes(250, 250, 250), core.Vec3{}, 0.05, 0.9))
	gold := world.AddMaterial(material.NewMaterial(material.FromBytes(212, 175, 55), core.Vec3{}, 0.05, 0.2))
	whiteLight := world.AddMaterial(material.NewLight(core.NewVec3(5.0, 5.0, 5.0)))
	redLight := world.AddMaterial(material.NewLight(core.NewVec3(5.0, 0.25, 0.25)))

	world.AddPrimitive(
		geometry.NewPlane(core.NewVec3(0, -1, 0), core.UnitY, floor),
		geometry.NewSphere(core.NewVec3(-2.2, -0.1, -0.8), 0.9, silver),
		geometry.NewSphere(core.NewVec3(2.0, -0.6, 0.8), 0.4, redLight),
		geometry.NewSphere(core.NewVec3(0.6, 2.5, -3.0), 0.5, whiteLight),
	)

	cube := newCubeMesh(gold)
	cube.Rotate(core.NewVec3(0, math.Pi/5, 0))
	cube.Fit(core.NewVec3(0, -0.25, 0), 1.5)
	world.AddMesh(cube)

	world.AddLight(
		NewPointLight(core.NewVec3(2.0, 5.0, 0.0), core.NewVec3(0.9, 0.9, 0.9), 5.0),
		NewPointLight(core.NewVec3(-2.0, 5.0, 0.0), core.NewVec3(0.9, 0.7, 0.9), 5.0),
	)

	return &Scene{
		Name:           "default",
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: DefaultSamplingConfig(),
	}
}
