package loaders

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NoMaterial marks a mesh that carries no material of its own. The caller decides
// which world material it renders with.
const NoMaterial = -1

// Model is the result of loading a scene-description file: meshes plus the materials
// they reference. Mesh.Material indexes into Materials, or is NoMaterial.
type Model struct {
	Name      string
	Meshes    []*geometry.Mesh
	Materials []material.Material
}

// TriangleCount returns the total face count across all meshes
func (m *Model) TriangleCount() int {
	count := 0
	for _, mesh := range m.Meshes {
		count += mesh.TriangleCount()
	}
	return count
}

// Bounds returns the combined bounding box of all meshes
func (m *Model) Bounds() (min, max core.Vec3) {
	first := true
	for _, mesh := range m.Meshes {
		if len(mesh.Vertices) == 0 {
			continue
		}
		lo, hi := mesh.Bounds()
		if first {
			min, max = lo, hi
			first = false
			continue
		}
		min = core.NewVec3(math.Min(min.X, lo.X), math.Min(min.Y, lo.Y), math.Min(min.Z, lo.Z))
		max = core.NewVec3(math.Max(max.X, hi.X), math.Max(max.Y, hi.Y), math.Max(max.Z, hi.Z))
	}
	return min, max
}

// Fit uniformly rescales and translates every mesh together so the model is centered
// at center and its largest extent equals size. Relative placement is preserved.
func (m *Model) Fit(center core.Vec3, size float64) {
	min, max := m.Bounds()
	oldCenter := min.Add(max).Multiply(0.5)
	d := max.Subtract(min)
	scale := 1.0
	if extent := math.Max(d.X, math.Max(d.Y, d.Z)); extent > 0 {
		scale = size / extent
	}
	for _, mesh := range m.Meshes {
		for i, v := range mesh.Vertices {
			mesh.Vertices[i] = v.Subtract(oldCenter).Multiply(scale).Add(center)
		}
	}
}

// LoadModel loads a mesh file, choosing the format by extension
func LoadModel(path string) (*Model, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		mesh, err := LoadOBJFile(path, NoMaterial)
		if err != nil {
			return nil, err
		}
		return singleMeshModel(mesh), nil
	case ".ply":
		mesh, err := LoadPLYFile(path, NoMaterial)
		if err != nil {
			return nil, err
		}
		return singleMeshModel(mesh), nil
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", ext)
	}
}

// IsModelFile reports whether LoadModel understands the file's extension
func IsModelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj", ".ply", ".gltf", ".glb":
		return true
	}
	return false
}

func singleMeshModel(mesh *geometry.Mesh) *Model {
	return &Model{
		Name:   mesh.Name,
		Meshes: []*geometry.Mesh{mesh},
	}
}
