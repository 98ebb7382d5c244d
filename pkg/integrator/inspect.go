package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// SurfaceHit describes the first surface a ray meets
type SurfaceHit struct {
	T             float64
	Point         core.Vec3
	Normal        core.Vec3
	Primitive     geometry.Primitive
	MaterialIndex int
}

// FirstHit casts ray into the world with the same linear scan the tracer uses
func FirstHit(world *scene.World, ray core.Ray) (SurfaceHit, bool) {
	h, found := closestHit(world.Primitives, ray)
	if !found {
		return SurfaceHit{}, false
	}
	point := ray.At(h.t)
	return SurfaceHit{
		T:             h.t,
		Point:         point,
		Normal:        h.primitive.NormalAt(point),
		Primitive:     h.primitive,
		MaterialIndex: h.primitive.MaterialIndex(),
	}, true
}
