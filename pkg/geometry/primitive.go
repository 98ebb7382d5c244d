package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Margin is the minimum accepted ray parameter. Hits closer than this are
// rejected so a ray leaving a surface does not immediately re-hit it.
const Margin = 0.001

// parallelEpsilon bounds |n·d| below which a ray is treated as parallel to a plane
const parallelEpsilon = 1e-8

// Primitive is a shape the path tracer can intersect
type Primitive interface {
	// Intersect returns the smallest ray parameter t >= Margin at which the ray meets
	// the surface, or false when there is no forward intersection.
	Intersect(ray core.Ray) (float64, bool)
	// NormalAt returns the unit surface normal at a point on the surface
	NormalAt(point core.Vec3) core.Vec3
	// MaterialIndex returns the index of the primitive's material in the world
	MaterialIndex() int
}
