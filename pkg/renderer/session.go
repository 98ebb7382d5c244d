package renderer

import (
	"context"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Session is a running render. The coordinator polls it for finished slices and writes them
// into the frame buffer. A Session is not safe for concurrent use.
type Session struct {
	pool     *WorkerPool
	frame    *FrameBuffer
	stats    RenderStats
	total    int
	interval time.Duration
	start    time.Time
	cancel   context.CancelFunc
	logger   core.Logger

	finished bool
	err      error
}

func newSession(ctx context.Context, pool *WorkerPool, config RenderConfig, sliceCount int, logger core.Logger) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		pool:     pool,
		frame:    NewFrameBuffer(config.Width, config.Height),
		total:    config.TotalPixels(),
		interval: config.pollInterval(),
		start:    time.Now(),
		cancel:   cancel,
		logger:   logger,
		stats: RenderStats{
			MaxSamples: config.SamplesPerPixel,
			Slices:     sliceCount,
			Workers:    pool.NumWorkers(),
		},
	}
	pool.Start(ctx)
	return s
}

// Poll drains every completed slice without blocking and reports how many pixels were
// written and whether the render has finished
func (s *Session) Poll() (int, bool) {
	if s.finished {
		return 0, true
	}

	// Workers send before decrementing the active count, so once it reads zero every
	// result is already buffered.
	active := s.pool.Active()
	written := s.drain()
	if active > 0 {
		return written, false
	}

	<-s.pool.Done()
	written += s.drain()
	s.finish(s.pool.Err())
	return written, true
}

// Wait polls until the render finishes, sleeping PollInterval between polls. onPoll, if
// set, is called after every poll that wrote pixels and once more when the render ends.
// If ctx is cancelled the workers are stopped at their next slice boundary and the
// context error is returned.
func (s *Session) Wait(ctx context.Context, onPoll func(written int)) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		written, done := s.Poll()
		if onPoll != nil && (written > 0 || done) {
			onPoll(written)
		}
		if done {
			return s.err
		}

		select {
		case <-ctx.Done():
			s.cancel()
			<-s.pool.Done()
			s.drain()
			s.finish(ctx.Err())
			return s.err
		case <-ticker.C:
		}
	}
}

// Cancel asks the workers to stop at their next slice boundary
func (s *Session) Cancel() {
	s.cancel()
}

// FrameBuffer returns the frame being filled
func (s *Session) FrameBuffer() *FrameBuffer {
	return s.frame
}

// Stats returns the statistics gathered so far
func (s *Session) Stats() RenderStats {
	stats := s.stats
	if !s.finished {
		stats.Elapsed = time.Since(s.start)
	}
	return stats
}

// Progress returns the fraction of pixels written, in [0, 1]
func (s *Session) Progress() float64 {
	if s.total == 0 {
		return 1
	}
	return float64(s.stats.TotalPixels) / float64(s.total)
}

// Done reports whether the render has finished
func (s *Session) Done() bool {
	return s.finished
}

// Err returns the error that ended the render, if any
func (s *Session) Err() error {
	return s.err
}

func (s *Session) drain() int {
	written := 0
	for {
		select {
		case result := <-s.pool.Results():
			for _, pixel := range result.Pixels {
				s.frame.Set(pixel)
			}
			s.stats.addSlice(result)
			written += len(result.Pixels)
		default:
			return written
		}
	}
}

func (s *Session) finish(err error) {
	if s.finished {
		return
	}
	s.finished = true
	s.err = err
	s.cancel()
	s.stats.Elapsed = time.Since(s.start)

	if err != nil {
		s.logger.Printf("Render stopped: %v\n", err)
	}
	s.logger.Printf("Number of bounces: %d\n", s.pool.Bounces())
	s.logger.Printf("Time elapsed: %dms\n", s.stats.Elapsed.Milliseconds())
}
