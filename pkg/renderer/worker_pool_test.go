package renderer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func runPool(t *testing.T, width, height, sliceCount, workers int) []SliceResult {
	t.Helper()
	sampler := NewPixelSampler(newSkyWorld(), newTestCamera(t), constantIntegrator{color: core.NewVec3(1, 1, 1), bounces: 1}, width, height, 2)
	slices := NewSlices(width*height, sliceCount)
	pool := NewWorkerPool(NewSliceQueue(slices), sampler, width, workers, 42, nil)
	pool.Start(context.Background())
	<-pool.Done()

	if err := pool.Err(); err != nil {
		t.Fatalf("Unexpected worker error: %v", err)
	}
	if pool.Active() != 0 {
		t.Errorf("Expected no active workers, got %d", pool.Active())
	}

	var results []SliceResult
	for len(pool.Results()) > 0 {
		results = append(results, <-pool.Results())
	}
	return results
}

func TestWorkerPool_EveryPixelOnce(t *testing.T) {
	const width, height = 17, 13

	for _, workers := range []int{1, 2, 3, 8} {
		for _, sliceCount := range []int{1, 7, 256} {
			t.Run(fmt.Sprintf("workers=%d/slices=%d", workers, sliceCount), func(t *testing.T) {
				results := runPool(t, width, height, sliceCount, workers)

				writes := make([]int, width*height)
				for _, r := range results {
					for _, p := range r.Pixels {
						writes[p.Index]++
					}
				}
				for i, n := range writes {
					if n != 1 {
						t.Errorf("Pixel %d written %d times", i, n)
					}
				}
				if len(results) != min(sliceCount, width*height) {
					t.Errorf("Expected %d slice results, got %d", min(sliceCount, width*height), len(results))
				}
			})
		}
	}
}

func TestWorkerPool_CountsBounces(t *testing.T) {
	sampler := NewPixelSampler(newSkyWorld(), newTestCamera(t), constantIntegrator{bounces: 3}, 10, 10, 2)
	pool := NewWorkerPool(NewSliceQueue(NewSlices(100, 10)), sampler, 10, 4, 1, nil)
	pool.Start(context.Background())
	<-pool.Done()

	// 100 pixels × 2 samples × 3 bounces
	if pool.Bounces() != 600 {
		t.Errorf("Expected 600 bounces, got %d", pool.Bounces())
	}
}

func TestWorkerPool_PanicBecomesError(t *testing.T) {
	sampler := NewPixelSampler(newSkyWorld(), newTestCamera(t), &panicIntegrator{after: 50}, 16, 16, 1)
	pool := NewWorkerPool(NewSliceQueue(NewSlices(256, 16)), sampler, 16, 4, 1, nil)
	pool.Start(context.Background())
	<-pool.Done()

	err := pool.Err()
	if err == nil {
		t.Fatal("Expected an error from the panicking worker")
	}
	if !strings.Contains(err.Error(), "panic") {
		t.Errorf("Expected panic in error, got %v", err)
	}
	if pool.Active() != 0 {
		t.Errorf("Expected all workers to exit, got %d active", pool.Active())
	}
}

func TestWorkerPool_StopsOnCancel(t *testing.T) {
	sampler := NewPixelSampler(newSkyWorld(), newTestCamera(t), constantIntegrator{bounces: 1}, 16, 16, 1)
	pool := NewWorkerPool(NewSliceQueue(NewSlices(256, 16)), sampler, 16, 2, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool.Start(ctx)
	<-pool.Done()

	if pool.Err() != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", pool.Err())
	}
	if len(pool.Results()) != 0 {
		t.Errorf("Expected no slices rendered after cancel, got %d", len(pool.Results()))
	}
}
