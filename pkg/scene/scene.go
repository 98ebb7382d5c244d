package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *World
	CameraConfig   geometry.CameraConfig
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of jittered rays per pixel
	MaxBounces      int // Maximum bounces per path
}

// DefaultSamplingConfig matches the resolution and quality the presets were tuned for
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           512,
		Height:          512,
		SamplesPerPixel: 8,
		MaxBounces:      16,
	}
}

// NewCamera builds the scene's camera from its configuration
func (s *Scene) NewCamera() (*geometry.Camera, error) {
	camera, err := geometry.NewCamera(s.CameraConfig)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	return camera, nil
}

// AddModel appends the model's materials and meshes. Meshes without a material of their
// own use fallback. Returns the number of degenerate faces that were skipped.
func (w *World) AddModel(model *loaders.Model, fallback int) int {
	offset := len(w.Materials)
	w.Materials = append(w.Materials, model.Materials...)

	skipped := 0
	for _, mesh := range model.Meshes {
		original := mesh.Material
		if original == loaders.NoMaterial {
			mesh.Material = fallback
		} else {
			mesh.Material = original + offset
		}
		skipped += w.AddMesh(mesh)
		mesh.Material = original
	}
	return skipped
}

// resolveCamera applies the first override, if any, to the preset's camera
func resolveCamera(defaults geometry.CameraConfig, cameraOverrides ...geometry.CameraConfig) geometry.CameraConfig {
	if len(cameraOverrides) > 0 {
		return geometry.MergeCameraConfig(defaults, cameraOverrides[0])
	}
	return defaults
}
