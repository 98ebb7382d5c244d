package renderer

import (
	"context"
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Renderer traces a world through a camera using a pool of slice workers
type Renderer struct {
	world      *scene.World
	camera     *geometry.Camera
	integrator integrator.Integrator
	config     RenderConfig
	logger     core.Logger
}

// NewRenderer validates the world and configuration and creates a renderer using the path
// tracer limited to config.MaxBounces
func NewRenderer(world *scene.World, camera *geometry.Camera, config RenderConfig, logger core.Logger) (*Renderer, error) {
	tracerConfig := integrator.DefaultPathTracerConfig()
	tracerConfig.MaxBounces = config.MaxBounces
	return NewRendererWithIntegrator(world, camera, integrator.NewPathTracer(tracerConfig), config, logger)
}

// NewRendererWithIntegrator creates a renderer with a custom light transport algorithm
func NewRendererWithIntegrator(world *scene.World, camera *geometry.Camera, integ integrator.Integrator, config RenderConfig, logger core.Logger) (*Renderer, error) {
	if world == nil {
		return nil, errors.New("renderer requires a world")
	}
	if camera == nil {
		return nil, errors.New("renderer requires a camera")
	}
	if integ == nil {
		return nil, errors.New("renderer requires an integrator")
	}
	if err := world.Validate(); err != nil {
		return nil, fmt.Errorf("invalid world: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = core.NewNopLogger()
	}

	return &Renderer{
		world:      world,
		camera:     camera,
		integrator: integ,
		config:     config,
		logger:     logger,
	}, nil
}

// Config returns the render configuration
func (r *Renderer) Config() RenderConfig {
	return r.config
}

// Start shuffles the slices, launches the workers and returns the session the caller polls
// for results. Cancelling ctx stops workers at their next slice boundary.
func (r *Renderer) Start(ctx context.Context) *Session {
	slices := NewSlices(r.config.TotalPixels(), r.config.sliceCount())
	ShuffleSlices(slices, core.NewRandom(r.config.Seed))

	sampler := NewPixelSampler(r.world, r.camera, r.integrator, r.config.Width, r.config.Height, r.config.SamplesPerPixel)
	pool := NewWorkerPool(NewSliceQueue(slices), sampler, r.config.Width, r.config.workers(), r.config.Seed, r.logger)

	r.logger.Printf("Rendering %dx%d at %d samples/pixel: %d slices on %d workers\n",
		r.config.Width, r.config.Height, r.config.SamplesPerPixel, len(slices), pool.NumWorkers())

	return newSession(ctx, pool, r.config, len(slices), r.logger)
}

// Render runs a render to completion and returns the frame and its statistics
func (r *Renderer) Render(ctx context.Context) (*FrameBuffer, RenderStats, error) {
	session := r.Start(ctx)
	err := session.Wait(ctx, nil)
	return session.FrameBuffer(), session.Stats(), err
}
