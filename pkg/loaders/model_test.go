package loaders

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

func TestModel_Fit(t *testing.T) {
	model := &Model{
		Meshes: []*geometry.Mesh{
			{Vertices: []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1)}},
			{Vertices: []core.Vec3{core.NewVec3(3, 0, 0), core.NewVec3(4, 1, 1)}},
		},
	}

	model.Fit(core.NewVec3(0, 0, 0), 2)

	min, max := model.Bounds()
	if math.Abs((max.X-min.X)-2) > 1e-9 {
		t.Errorf("Expected extent 2, got %f", max.X-min.X)
	}
	center := min.Add(max).Multiply(0.5)
	if center.Length() > 1e-9 {
		t.Errorf("Expected centered model, got center %v", center)
	}
	// Relative placement is preserved: the gap between meshes scales with the model
	gap := model.Meshes[1].Vertices[0].X - model.Meshes[0].Vertices[1].X
	if math.Abs(gap-1) > 1e-9 {
		t.Errorf("Expected scaled gap 1, got %f", gap)
	}
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "cube.obj")
	if err := os.WriteFile(objPath, []byte(cubeOBJ), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	plyPath := filepath.Join(dir, "square.ply")
	if err := os.WriteFile(plyPath, createTestPLY(t, false), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	tests := []struct {
		path      string
		triangles int
	}{
		{objPath, 12},
		{plyPath, 2},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			model, err := LoadModel(tt.path)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if model.TriangleCount() != tt.triangles {
				t.Errorf("Expected %d triangles, got %d", tt.triangles, model.TriangleCount())
			}
			if model.Meshes[0].Material != NoMaterial {
				t.Errorf("Expected NoMaterial, got %d", model.Meshes[0].Material)
			}
		})
	}

	if _, err := LoadModel(filepath.Join(dir, "scene.pbrt")); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestIsModelFile(t *testing.T) {
	tests := map[string]bool{
		"a.obj":  true,
		"a.OBJ":  true,
		"a.glb":  true,
		"a.gltf": true,
		"a.ply":  true,
		"a.pbrt": false,
		"a":      false,
	}
	for path, expected := range tests {
		if got := IsModelFile(path); got != expected {
			t.Errorf("IsModelFile(%q) = %v, want %v", path, got, expected)
		}
	}
}
