package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material int
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material int) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray) (float64, bool) {
	// Ray origin relative to the sphere center
	o := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * o.Dot(ray.Direction)
	c := o.Dot(o) - s.Radius*s.Radius

	if a < 1e-12 {
		return 0, false
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Prefer the nearer root, fall back to the farther one when the origin is inside
	t := (-b - sqrtD) / (2 * a)
	if t <= 0 {
		t = (-b + sqrtD) / (2 * a)
	}
	if t < Margin {
		return 0, false
	}
	return t, true
}

// NormalAt returns the outward normal at a point on the sphere
func (s *Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// MaterialIndex returns the sphere's material index
func (s *Sphere) MaterialIndex() int {
	return s.Material
}
