package integrator

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Trace estimates the radiance arriving along ray and reports how many surface
	// bounces the path made. Zero bounces means the ray escaped to the sky directly.
	// The world is shared read-only; random belongs to the calling worker.
	Trace(world *scene.World, ray core.Ray, random *rand.Rand) (core.Vec3, int)
}
