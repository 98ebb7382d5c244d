package renderer

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// PixelResult is the outcome of sampling one pixel
type PixelResult struct {
	Index     int       // Frame buffer index (y*width + x)
	Linear    core.Vec3 // Averaged linear radiance
	SRGB      core.Vec3 // Gamma-encoded color in [0, 1]
	Bounces   int       // Bounces summed over all samples taken
	Samples   int       // Samples actually taken
	EarlyExit bool      // Sampling stopped on the sky-run heuristic
}

// PixelSampler fires jittered camera rays through a pixel and combines the results
type PixelSampler struct {
	world      *scene.World
	camera     *geometry.Camera
	integrator integrator.Integrator
	width      int
	height     int
	samples    int
}

// NewPixelSampler creates a sampler for a width×height image
func NewPixelSampler(world *scene.World, camera *geometry.Camera, integ integrator.Integrator, width, height, samples int) *PixelSampler {
	return &PixelSampler{
		world:      world,
		camera:     camera,
		integrator: integ,
		width:      width,
		height:     height,
		samples:    samples,
	}
}

// EarlyExitThreshold is the number of consecutive zero-bounce samples after which a pixel
// stops sampling
func (ps *PixelSampler) EarlyExitThreshold() int {
	return max(ps.samples/4, 2)
}

// Sample renders pixel (x, y). Samples are evaluated in order; once EarlyExitThreshold
// consecutive samples escape straight to the sky, the last sample's color is used as is.
func (ps *PixelSampler) Sample(x, y int, random *rand.Rand) PixelResult {
	result := PixelResult{Index: y*ps.width + x}

	filmPoint := ps.camera.ScreenPointToProjectionPlane(x, ps.width, y, ps.height)
	contribution := 1.0 / float64(ps.samples)
	threshold := ps.EarlyExitThreshold()

	var pixel core.Vec3
	noBounceRun := 0
	for s := 0; s < ps.samples; s++ {
		jittered := filmPoint.AddComponents(
			core.RandomOffset(random, 0.5/float64(ps.width)),
			core.RandomOffset(random, 0.5/float64(ps.height)),
			0,
		)

		color, bounces := ps.integrator.Trace(ps.world, ps.camera.RayThrough(jittered), random)
		result.Bounces += bounces
		result.Samples++

		if bounces == 0 {
			noBounceRun++
		} else {
			noBounceRun = 0
		}

		pixel = pixel.Add(color.Multiply(contribution))

		if noBounceRun >= threshold {
			pixel = color
			result.EarlyExit = true
			break
		}
	}

	result.Linear = pixel
	result.SRGB = material.LinearToSRGB(pixel)
	return result
}
