package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewTrianglesScene creates a pyramid and a floating triangle built from raw triangles
func NewTrianglesScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := resolveCamera(geometry.CameraConfig{
		Position:      core.NewVec3(0, 2, 6),
		Target:        core.NewVec3(0, 0.5, 0),
		PlaneDistance: 1.8,
	}, cameraOverrides...)

	world := NewWorld(material.NewLight(core.NewVec3(0.2, 0.2, 0.25)))

	floor := world.AddMaterial(material.NewMaterial(core.NewVec3(0.8, 0.8, 0.8), core.Vec3{}, 0.9, 0.0))
	copper := world.AddMaterial(material.NewMaterial(material.FromBytes(184, 115, 51), core.Vec3{}, 0.15, 0.6))
	glow := world.AddMaterial(material.NewLight(core.NewVec3(0.2, 0.6, 2.0)))

	world.AddPrimitive(geometry.NewCulledPlane(core.Vec3{}, core.UnitY, floor))
	world.AddMesh(newPyramidMesh(copper))

	// Facing the camera: counter-clockwise seen from +z
	if tri, err := geometry.NewTriangle(
		core.NewVec3(1.5, 1.0, -1.5),
		core.NewVec3(3.0, 1.0, -1.5),
		core.NewVec3(2.25, 2.3, -1.5),
		glow,
	); err == nil {
		world.AddPrimitive(tri)
	}

	world.AddLight(
		NewPointLight(core.NewVec3(-3, 4, 3), core.NewVec3(1.0, 0.95, 0.9), 10),
		NewPointLight(core.NewVec3(3, 3, 2), core.NewVec3(0.3, 0.4, 0.9), 6),
	)

	return &Scene{
		Name:           "triangles",
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: DefaultSamplingConfig(),
	}
}

// newCubeMesh returns an axis-aligned cube spanning [-1, 1] with outward-facing triangles
func newCubeMesh(materialIndex int) *geometry.Mesh {
	return &geometry.Mesh{
		Name: "cube",
		Vertices: []core.Vec3{
			core.NewVec3(-1, -1, -1), core.NewVec3(1, -1, -1), core.NewVec3(1, 1, -1), core.NewVec3(-1, 1, -1),
			core.NewVec3(-1, -1, 1), core.NewVec3(1, -1, 1), core.NewVec3(1, 1, 1), core.NewVec3(-1, 1, 1),
		},
		Faces: []int{
			0, 3, 2, 0, 2, 1, // back
			4, 5, 6, 4, 6, 7, // front
			0, 1, 5, 0, 5, 4, // bottom
			2, 3, 7, 2, 7, 6, // top
			1, 2, 6, 1, 6, 5, // right
			0, 4, 7, 0, 7, 3, // left
		},
		Material: materialIndex,
	}
}

// newPyramidMesh returns a square pyramid standing on y = 0
func newPyramidMesh(materialIndex int) *geometry.Mesh {
	return &geometry.Mesh{
		Name: "pyramid",
		Vertices: []core.Vec3{
			core.NewVec3(-1, 0, -1), core.NewVec3(1, 0, -1), core.NewVec3(1, 0, 1), core.NewVec3(-1, 0, 1),
			core.NewVec3(0, 1.6, 0),
		},
		Faces: []int{
			3, 2, 4, // front
			2, 1, 4, // right
			1, 0, 4, // back
			0, 3, 4, // left
			0, 1, 2, 0, 2, 3, // base
		},
		Material: materialIndex,
	}
}
