package renderer

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// constantIntegrator returns the same radiance and bounce count for every ray
type constantIntegrator struct {
	color   core.Vec3
	bounces int
}

func (c constantIntegrator) Trace(*scene.World, core.Ray, *rand.Rand) (core.Vec3, int) {
	return c.color, c.bounces
}

// sequenceIntegrator replays a fixed bounce pattern, one entry per call
type sequenceIntegrator struct {
	bounces []int
	calls   int
}

func (s *sequenceIntegrator) Trace(*scene.World, core.Ray, *rand.Rand) (core.Vec3, int) {
	b := s.bounces[s.calls%len(s.bounces)]
	s.calls++
	return core.NewVec3(float64(s.calls), 0, 0), b
}

// panicIntegrator panics once the given number of traces has been made
type panicIntegrator struct {
	mu    sync.Mutex
	after int
	calls int
}

func (p *panicIntegrator) Trace(*scene.World, core.Ray, *rand.Rand) (core.Vec3, int) {
	p.mu.Lock()
	p.calls++
	calls := p.calls
	p.mu.Unlock()
	if calls > p.after {
		panic("boom")
	}
	return core.Vec3{}, 1
}

func newSkyWorld() *scene.World {
	return scene.NewWorld(material.NewLight(core.NewVec3(0.2, 0.3, 0.4)))
}

func newTestCamera(t *testing.T) *geometry.Camera {
	t.Helper()
	camera, err := geometry.NewCamera(geometry.CameraConfig{
		Position:      core.NewVec3(0, 0, 5),
		Target:        core.NewVec3(0, 0, 0),
		PlaneDistance: 1,
	})
	if err != nil {
		t.Fatalf("Failed to create camera: %v", err)
	}
	return camera
}

func newTestConfig(width, height int) RenderConfig {
	return MergeRenderConfig(DefaultRenderConfig(), RenderConfig{
		Width:           width,
		Height:          height,
		SamplesPerPixel: 4,
		MaxBounces:      4,
	})
}
