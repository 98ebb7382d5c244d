package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// PathTracerConfig controls the path tracing kernel
type PathTracerConfig struct {
	MaxBounces     int     // Upper bound on surface bounces per path
	RadianceLimit  float64 // Maximum length of the returned radiance vector
	ShadowFactor   float64 // Light coefficient applied when a light is occluded
	MinLightFactor float64 // Floor for the (1 + n·l) light weighting
}

// DefaultPathTracerConfig returns the kernel defaults. RadianceLimit is the diagonal of
// the unit RGB cube.
func DefaultPathTracerConfig() PathTracerConfig {
	return PathTracerConfig{
		MaxBounces:     16,
		RadianceLimit:  1.73,
		ShadowFactor:   0.25,
		MinLightFactor: 0.1,
	}
}

// PathTracer is an iterative path tracer that follows a single perturbed specular
// reflection per bounce and gathers point-light contributions along the way
type PathTracer struct {
	config PathTracerConfig
}

// NewPathTracer creates a new path tracer
func NewPathTracer(config PathTracerConfig) *PathTracer {
	return &PathTracer{config: config}
}

// Config returns the tracer configuration
func (pt *PathTracer) Config() PathTracerConfig {
	return pt.config
}

// hit is the closest intersection found along a ray
type hit struct {
	t         float64
	primitive geometry.Primitive
}

// Trace follows ray through the world for at most MaxBounces bounces
func (pt *PathTracer) Trace(world *scene.World, ray core.Ray, random *rand.Rand) (core.Vec3, int) {
	sky := world.Sky()
	if pt.config.MaxBounces <= 0 {
		return pt.finalize(sky.Emission), 0
	}

	result := core.Vec3{}
	attenuation := core.NewVec3(1, 1, 1)
	bounces := 0

	for bounces < pt.config.MaxBounces {
		h, found := closestHit(world.Primitives, ray)
		if !found {
			result = result.Add(attenuation.MultiplyVec(sky.Emission))
			break
		}

		m := world.Material(h.primitive.MaterialIndex())
		point := ray.At(h.t)
		normal := h.primitive.NormalAt(point)

		result = result.Add(attenuation.MultiplyVec(m.Emission))

		direct, visibility := pt.directLight(world, point, normal)
		result = result.Add(attenuation.MultiplyVec(direct))
		attenuation = attenuation.Multiply(visibility).MultiplyVec(m.Absorption())

		ray = core.NewRay(point, m.Scatter(ray.Direction, normal, random))
		bounces++
	}

	return pt.finalize(result), bounces
}

// directLight sums the weighted contribution of every point light at a surface point.
// The second result is the product of all occlusion coefficients.
func (pt *PathTracer) directLight(world *scene.World, point, normal core.Vec3) (core.Vec3, float64) {
	direct := core.Vec3{}
	visibility := 1.0

	for _, light := range world.Lights {
		toLight := light.Position.Subtract(point)
		distance := toLight.Length()
		if distance == 0 {
			continue
		}
		dir := toLight.Divide(distance)

		lambert := math.Max(1+normal.Dot(dir), pt.config.MinLightFactor)

		occlusion := 1.0
		if occluded(world.Primitives, core.NewRay(point, dir), distance) {
			occlusion = pt.config.ShadowFactor
		}

		direct = direct.Add(light.Color.Multiply(light.Falloff(distance) * lambert * occlusion))
		visibility *= occlusion
	}

	return direct, visibility
}

// finalize discards non-finite radiance and clamps its magnitude to RadianceLimit
func (pt *PathTracer) finalize(radiance core.Vec3) core.Vec3 {
	if !radiance.IsFinite() {
		return core.Vec3{}
	}
	if length := radiance.Length(); length > pt.config.RadianceLimit {
		return radiance.Multiply(pt.config.RadianceLimit / length)
	}
	return radiance
}

// closestHit scans every primitive for the nearest intersection
func closestHit(primitives []geometry.Primitive, ray core.Ray) (hit, bool) {
	closest := hit{t: math.Inf(1)}
	found := false
	for _, p := range primitives {
		if t, ok := p.Intersect(ray); ok && t < closest.t {
			closest = hit{t: t, primitive: p}
			found = true
		}
	}
	return closest, found
}

// occluded reports whether any primitive blocks the ray before maxDistance
func occluded(primitives []geometry.Primitive, ray core.Ray, maxDistance float64) bool {
	for _, p := range primitives {
		if t, ok := p.Intersect(ray); ok && t < maxDistance {
			return true
		}
	}
	return false
}
