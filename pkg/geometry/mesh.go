package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Mesh is an indexed triangle list. Every three entries in Faces form a triangle.
type Mesh struct {
	Name     string
	Vertices []core.Vec3
	Faces    []int
	Material int
}

// TriangleCount returns the number of faces
func (m *Mesh) TriangleCount() int {
	return len(m.Faces) / 3
}

// Bounds returns the axis-aligned extent of the vertices
func (m *Mesh) Bounds() (min, max core.Vec3) {
	if len(m.Vertices) == 0 {
		return core.Vec3{}, core.Vec3{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = core.NewVec3(math.Min(min.X, v.X), math.Min(min.Y, v.Y), math.Min(min.Z, v.Z))
		max = core.NewVec3(math.Max(max.X, v.X), math.Max(max.Y, v.Y), math.Max(max.Z, v.Z))
	}
	return min, max
}

// Center returns the center of the bounding box
func (m *Mesh) Center() core.Vec3 {
	min, max := m.Bounds()
	return min.Add(max).Multiply(0.5)
}

// Size returns the largest extent of the bounding box
func (m *Mesh) Size() float64 {
	min, max := m.Bounds()
	d := max.Subtract(min)
	return math.Max(d.X, math.Max(d.Y, d.Z))
}

// Fit uniformly scales and translates the mesh so it is centered at center with its
// largest extent equal to size. Meshes with zero extent are only translated.
func (m *Mesh) Fit(center core.Vec3, size float64) {
	oldCenter := m.Center()
	scale := 1.0
	if extent := m.Size(); extent > 0 {
		scale = size / extent
	}
	for i, v := range m.Vertices {
		m.Vertices[i] = v.Subtract(oldCenter).Multiply(scale).Add(center)
	}
}

// Rotate applies Euler rotations in radians (X, then Y, then Z) about the mesh center
func (m *Mesh) Rotate(rotation core.Vec3) {
	center := m.Center()
	for i, v := range m.Vertices {
		m.Vertices[i] = rotateVertex(v.Subtract(center), rotation).Add(center)
	}
}

// Triangles builds a triangle per face. Degenerate faces are skipped and counted.
func (m *Mesh) Triangles() ([]*Triangle, int) {
	triangles := make([]*Triangle, 0, m.TriangleCount())
	skipped := 0
	for i := 0; i+2 < len(m.Faces); i += 3 {
		tri, err := NewTriangle(m.Vertices[m.Faces[i]], m.Vertices[m.Faces[i+1]], m.Vertices[m.Faces[i+2]], m.Material)
		if err != nil {
			skipped++
			continue
		}
		triangles = append(triangles, tri)
	}
	return triangles, skipped
}

func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	// Rotation around X axis
	if rotation.X != 0 {
		cos := math.Cos(rotation.X)
		sin := math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}

	// Rotation around Y axis
	if rotation.Y != 0 {
		cos := math.Cos(rotation.Y)
		sin := math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}

	// Rotation around Z axis
	if rotation.Z != 0 {
		cos := math.Cos(rotation.Z)
		sin := math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}

	return vertex
}
