package geometry

import (
	"errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrDegenerateTriangle is returned for triangles with zero area
var ErrDegenerateTriangle = errors.New("degenerate triangle")

// Triangle represents a single triangle defined by three vertices.
// Winding is counter-clockwise around the normal (v1-v0)×(v2-v0).
type Triangle struct {
	V0, V1, V2 core.Vec3
	plane      *Plane // Culled supporting plane, built once
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, material int) (*Triangle, error) {
	normal := v1.Subtract(v0).Cross(v2.Subtract(v0))
	if normal.LengthSquared() < 1e-18 {
		return nil, ErrDegenerateTriangle
	}

	return &Triangle{
		V0:    v0,
		V1:    v1,
		V2:    v2,
		plane: NewCulledPlane(v0, normal, material),
	}, nil
}

// Intersect hits the supporting plane, then keeps the hit only when it lies strictly
// inside all three edges. Points exactly on an edge are outside.
func (t *Triangle) Intersect(ray core.Ray) (float64, bool) {
	dist, ok := t.plane.Intersect(ray)
	if !ok {
		return 0, false
	}

	p := ray.At(dist)
	n := t.plane.Normal
	if !insideEdge(t.V0, t.V1, p, n) || !insideEdge(t.V1, t.V2, p, n) || !insideEdge(t.V2, t.V0, p, n) {
		return 0, false
	}
	return dist, true
}

func insideEdge(from, to, p, normal core.Vec3) bool {
	return to.Subtract(from).Cross(p.Subtract(from)).Dot(normal) > 0
}

// NormalAt returns the face normal
func (t *Triangle) NormalAt(core.Vec3) core.Vec3 {
	return t.plane.Normal
}

// MaterialIndex returns the triangle's material index
func (t *Triangle) MaterialIndex() int {
	return t.plane.Material
}

// Centroid returns the average of the three vertices
func (t *Triangle) Centroid() core.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Divide(3)
}
