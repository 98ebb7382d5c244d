package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/df07/go-pathtracer/pkg/scene"
)

// RenderConfig contains the scheduler and sampling settings for one render
type RenderConfig struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	SliceCount      int           // Number of work units the frame is split into
	NumWorkers      int           // Number of parallel workers (0 = auto-detect)
	SamplesPerPixel int           // Jittered samples per pixel
	MaxBounces      int           // Maximum bounces per path
	Seed            int64         // Base seed; worker i uses Seed+i
	PollInterval    time.Duration // Sleep between non-blocking result polls
}

// DefaultRenderConfig returns the settings the scheduler was tuned for
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:           512,
		Height:          512,
		SliceCount:      256,
		NumWorkers:      4,
		SamplesPerPixel: 8,
		MaxBounces:      16,
		Seed:            1,
		PollInterval:    10 * time.Millisecond,
	}
}

// ConfigFromSampling returns the default render configuration with the scene's sampling
// settings applied
func ConfigFromSampling(sampling scene.SamplingConfig) RenderConfig {
	return MergeRenderConfig(DefaultRenderConfig(), RenderConfig{
		Width:           sampling.Width,
		Height:          sampling.Height,
		SamplesPerPixel: sampling.SamplesPerPixel,
		MaxBounces:      sampling.MaxBounces,
	})
}

// MergeRenderConfig returns base with every non-zero field of override applied
func MergeRenderConfig(base, override RenderConfig) RenderConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.SliceCount != 0 {
		result.SliceCount = override.SliceCount
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxBounces != 0 {
		result.MaxBounces = override.MaxBounces
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.PollInterval != 0 {
		result.PollInterval = override.PollInterval
	}
	return result
}

// ErrInvalidConfig is wrapped by every configuration validation failure
var ErrInvalidConfig = errors.New("invalid render config")

// Validate reports the first setting that cannot be rendered
func (c RenderConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.SliceCount < 0:
		return fmt.Errorf("%w: slice count %d is negative", ErrInvalidConfig, c.SliceCount)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: worker count %d is negative", ErrInvalidConfig, c.NumWorkers)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel %d must be positive", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxBounces < 0:
		return fmt.Errorf("%w: max bounces %d is negative", ErrInvalidConfig, c.MaxBounces)
	case c.PollInterval < 0:
		return fmt.Errorf("%w: poll interval %v is negative", ErrInvalidConfig, c.PollInterval)
	}
	return nil
}

// TotalPixels returns Width*Height
func (c RenderConfig) TotalPixels() int {
	return c.Width * c.Height
}

// workers resolves the auto-detect worker count
func (c RenderConfig) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

// sliceCount resolves the default slice count
func (c RenderConfig) sliceCount() int {
	if c.SliceCount <= 0 {
		return DefaultRenderConfig().SliceCount
	}
	return c.SliceCount
}

// pollInterval resolves the default poll interval
func (c RenderConfig) pollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return DefaultRenderConfig().PollInterval
	}
	return c.PollInterval
}
