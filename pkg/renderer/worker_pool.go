package renderer

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pathtracer/pkg/core"
)

// SliceResult is the batch of pixels a worker produced for one slice
type SliceResult struct {
	Slice   Slice
	Worker  int
	Pixels  []PixelResult
	Bounces int64
}

// WorkerPool runs a fixed set of workers that pull slices from a shared queue until it is
// empty. Results are delivered on a channel buffered for every slice so workers never block
// on a coordinator that stopped reading.
type WorkerPool struct {
	queue      *SliceQueue
	sampler    *PixelSampler
	width      int
	numWorkers int
	seed       int64
	logger     core.Logger

	results chan SliceResult
	active  Counter // Workers still running
	bounces Counter // Total bounces traced
	done    chan struct{}
	err     error
}

// NewWorkerPool creates a pool for the given queue. Worker i seeds its generator with seed+i.
func NewWorkerPool(queue *SliceQueue, sampler *PixelSampler, width, numWorkers int, seed int64, logger core.Logger) *WorkerPool {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &WorkerPool{
		queue:      queue,
		sampler:    sampler,
		width:      width,
		numWorkers: numWorkers,
		seed:       seed,
		logger:     logger,
		results:    make(chan SliceResult, queue.Len()),
		done:       make(chan struct{}),
	}
}

// Start launches the workers. The first worker error cancels the others; workers observe
// cancellation between slices only.
func (wp *WorkerPool) Start(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	wp.active.Add(int64(wp.numWorkers))

	for i := 0; i < wp.numWorkers; i++ {
		id := i
		g.Go(func() error {
			return wp.run(gctx, id)
		})
	}

	go func() {
		wp.err = g.Wait()
		close(wp.done)
	}()
}

// Results returns the channel completed slices are delivered on
func (wp *WorkerPool) Results() <-chan SliceResult {
	return wp.results
}

// Active returns the number of workers that have not exited
func (wp *WorkerPool) Active() int {
	return int(wp.active.Value())
}

// Bounces returns the total bounce count traced so far
func (wp *WorkerPool) Bounces() int64 {
	return wp.bounces.Value()
}

// NumWorkers returns the size of the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Done is closed once every worker has exited
func (wp *WorkerPool) Done() <-chan struct{} {
	return wp.done
}

// Err returns the first worker error. Only valid after Done is closed.
func (wp *WorkerPool) Err() error {
	return wp.err
}

// run is the main worker loop
func (wp *WorkerPool) run(ctx context.Context, id int) error {
	defer wp.active.Add(-1)

	random := core.NewRandom(wp.seed + int64(id))
	slices := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		slice, ok := wp.queue.Pop()
		if !ok {
			break
		}

		result, err := wp.renderSlice(id, slice, random)
		if err != nil {
			return err
		}
		wp.bounces.Add(result.Bounces)
		wp.results <- result
		slices++
	}

	wp.logger.Printf("Worker %d finished after %d slices\n", id, slices)
	return nil
}

// renderSlice traces every pixel of slice. A panic is converted into an error so the
// coordinator is never left waiting on a worker that silently died.
func (wp *WorkerPool) renderSlice(id int, slice Slice, random *rand.Rand) (result SliceResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d: panic rendering slice [%d, %d): %v", id, slice.Start, slice.End, r)
		}
	}()

	result = SliceResult{
		Slice:  slice,
		Worker: id,
		Pixels: make([]PixelResult, 0, slice.Len()),
	}
	for index := slice.Start; index < slice.End; index++ {
		pixel := wp.sampler.Sample(index%wp.width, index/wp.width, random)
		result.Bounces += int64(pixel.Bounces)
		result.Pixels = append(result.Pixels, pixel)
	}
	return result, nil
}
