package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewSpheresScene creates glowing spheres half sunk into a green ground plane under a
// pale blue sky
func NewSpheresScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := resolveCamera(geometry.CameraConfig{
		Position:      core.NewVec3(0, 0.5, 8),
		Target:        core.NewVec3(0, 0.5, 0),
		PlaneDistance: 2,
	}, cameraOverrides...)

	world := NewWorld(material.NewLight(core.NewVec3(0.718, 0.765, 0.953)))

	ground := world.AddMaterial(material.NewMaterial(core.NewVec3(0.25, 0.75, 0.25), core.Vec3{}, 0.8, 0.0))
	blue := world.AddMaterial(material.NewMaterial(core.NewVec3(0.2, 0.257, 0.835), core.Vec3{}, 0.25, 0.0))
	red := world.AddMaterial(material.NewLight(core.NewVec3(1.0, 0.1, 0.1)))
	green := world.AddMaterial(material.NewLight(core.NewVec3(0.1, 1.0, 0.1)))

	world.AddPrimitive(
		geometry.NewPlaneFromDistance(core.UnitY, 0, ground),
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1, red),
		geometry.NewSphere(core.NewVec3(2, 0, 2), 1, green),
		geometry.NewSphere(core.NewVec3(-2.5, 0.75, -1), 1.25, blue),
	)

	world.AddLight(NewPointLight(core.NewVec3(4, 6, 6), core.NewVec3(1, 1, 1), 15))

	sampling := DefaultSamplingConfig()
	sampling.Width = 640
	sampling.Height = 640
	sampling.MaxBounces = 8

	return &Scene{
		Name:           "spheres",
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: sampling,
	}
}
