package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

func TestBuiltInScenes(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Lookup(name)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if err := s.World.Validate(); err != nil {
				t.Errorf("Expected valid world, got %v", err)
			}
			if len(s.World.Primitives) == 0 {
				t.Error("Expected primitives")
			}
			if len(s.World.Lights) == 0 {
				t.Error("Expected point lights")
			}
			if _, err := s.NewCamera(); err != nil {
				t.Errorf("Expected valid camera, got %v", err)
			}
			if s.SamplingConfig.Width <= 0 || s.SamplingConfig.SamplesPerPixel <= 0 {
				t.Errorf("Expected positive sampling config, got %+v", s.SamplingConfig)
			}
		})
	}
}

func TestLookup_CameraOverride(t *testing.T) {
	s, err := Lookup("default", geometry.CameraConfig{PlaneDistance: 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.CameraConfig.PlaneDistance != 3 {
		t.Errorf("Expected plane distance 3, got %f", s.CameraConfig.PlaneDistance)
	}
	if s.CameraConfig.Position != core.NewVec3(0, 2, 6) {
		t.Errorf("Expected default position to be kept, got %v", s.CameraConfig.Position)
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, err := Lookup("no-such-scene"); err == nil {
		t.Error("Expected error for unknown scene")
	}
	if _, err := Lookup("mesh:no-such-mesh"); err == nil {
		t.Error("Expected error for unknown mesh scene")
	}
}

func TestLookup_MeshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.obj")
	data := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 0 0 1\nf 1 3 2\nf 1 2 4\nf 1 4 3\nf 2 3 4\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	s, err := Lookup(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Name != "tetra" {
		t.Errorf("Expected scene name tetra, got %q", s.Name)
	}
	// Floor plane plus four faces
	if len(s.World.Primitives) != 5 {
		t.Errorf("Expected 5 primitives, got %d", len(s.World.Primitives))
	}
	if err := s.World.Validate(); err != nil {
		t.Errorf("Expected valid world, got %v", err)
	}
}

func TestBuiltInMeshesFaceOutward(t *testing.T) {
	for _, mesh := range []*geometry.Mesh{newCubeMesh(1), newPyramidMesh(1)} {
		center := mesh.Center()
		triangles, skipped := mesh.Triangles()
		if skipped != 0 {
			t.Errorf("%s: expected no degenerate faces, got %d", mesh.Name, skipped)
		}
		for i, tri := range triangles {
			if tri.NormalAt(core.Vec3{}).Dot(tri.Centroid().Subtract(center)) <= 0 {
				t.Errorf("%s: expected triangle %d to face outward", mesh.Name, i)
			}
		}
	}
}
