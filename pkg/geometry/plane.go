package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal
	Material int       // Material index
	Culled   bool      // Reject rays arriving from the normal's side
}

// NewPlane creates a new two-sided plane
func NewPlane(point, normal core.Vec3, material int) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Material: material,
	}
}

// NewCulledPlane creates a plane that only accepts rays travelling against its normal
func NewCulledPlane(point, normal core.Vec3, material int) *Plane {
	p := NewPlane(point, normal, material)
	p.Culled = true
	return p
}

// NewPlaneFromDistance creates a plane from the implicit form n·p + d = 0
func NewPlaneFromDistance(normal core.Vec3, distance float64, material int) *Plane {
	n := normal.Normalize()
	return NewPlane(n.Multiply(-distance), n, material)
}

// Intersect solves n·(o + t·d - p) = 0 for t
func (p *Plane) Intersect(ray core.Ray) (float64, bool) {
	denominator := p.Normal.Dot(ray.Direction)

	if math.Abs(denominator) < parallelEpsilon {
		return 0, false
	}
	if p.Culled && denominator >= 0 {
		return 0, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < Margin || math.IsNaN(t) {
		return 0, false
	}
	return t, true
}

// NormalAt returns the plane normal, which is the same everywhere
func (p *Plane) NormalAt(core.Vec3) core.Vec3 {
	return p.Normal
}

// MaterialIndex returns the plane's material index
func (p *Plane) MaterialIndex() int {
	return p.Material
}
