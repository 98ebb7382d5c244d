package core

import (
	"math"
	"math/rand"
)

// RandomUnitVector returns a direction distributed uniformly over the unit sphere.
// z is uniform in [-1, 1] and the azimuth uniform in [0, 2π), which is area-uniform
// by Archimedes' hat-box theorem.
func RandomUnitVector(random *rand.Rand) Vec3 {
	z := 2*random.Float64() - 1
	a := 2 * math.Pi * random.Float64()
	r := math.Sqrt(math.Max(0, 1-z*z))
	return Vec3{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z}
}

// RandomOffset returns a value uniformly distributed in [-halfWidth, halfWidth)
func RandomOffset(random *rand.Rand, halfWidth float64) float64 {
	return (2*random.Float64() - 1) * halfWidth
}

// NewRandom creates a deterministic generator for the given seed
func NewRandom(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
