package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewMeshScene places a loaded model on a studio floor, scaled to fit the view.
// Meshes without their own material render in a neutral grey.
func NewMeshScene(model *loaders.Model, cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := resolveCamera(geometry.CameraConfig{
		Position:      core.NewVec3(0, 1.5, 5),
		Target:        core.NewVec3(0, 0.2, 0),
		PlaneDistance: 2,
	}, cameraOverrides...)

	world := NewWorld(material.NewLight(core.NewVec3(0.15, 0.15, 0.2)))

	floor := world.AddMaterial(material.NewMaterial(core.NewVec3(0.6, 0.6, 0.6), core.Vec3{}, 0.9, 0.0))
	grey := world.AddMaterial(material.NewMaterial(core.NewVec3(0.75, 0.75, 0.75), core.Vec3{}, 0.3, 0.4))

	world.AddPrimitive(geometry.NewPlane(core.NewVec3(0, -1, 0), core.UnitY, floor))

	model.Fit(core.NewVec3(0, 0.2, 0), 2.4)
	world.AddModel(model, grey)

	world.AddLight(
		NewPointLight(core.NewVec3(-3, 5, 4), core.NewVec3(1.0, 0.95, 0.9), 12),
		NewPointLight(core.NewVec3(4, 3, -2), core.NewVec3(0.4, 0.5, 0.8), 8),
	)

	name := model.Name
	if name == "" {
		name = "mesh"
	}

	return &Scene{
		Name:           name,
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: DefaultSamplingConfig(),
	}
}

// NewMeshFileScene loads an OBJ, PLY, glTF or GLB file and wraps it with NewMeshScene
func NewMeshFileScene(path string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	model, err := loaders.LoadModel(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh scene: %w", err)
	}
	return NewMeshScene(model, cameraOverrides...), nil
}
