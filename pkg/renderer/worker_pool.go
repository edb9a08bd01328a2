package renderer

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/df07/go-band-raytracer/pkg/core"
)

// BandTask represents a band rendering task for the worker pool
type BandTask struct {
	Buffer *BandBuffer // Private output buffer of the band
	TaskID int         // Band index, used to place the result
}

// BandResult contains the result from rendering a band
type BandResult struct {
	TaskID int
	Stats  BandStats
	Error  error
}

// WorkerPool runs one long-lived worker per band and joins them all
type WorkerPool struct {
	renderer *TileRenderer
	workers  []*Worker
	logger   core.Logger
}

// Worker renders exactly one band with its own random sampler
type Worker struct {
	ID       int
	renderer *TileRenderer
	sampler  *core.RandomSampler
	logger   core.Logger
}

// NewWorkerPool creates a worker pool with numWorkers workers
func NewWorkerPool(renderer *TileRenderer, numWorkers int, logger core.Logger) *WorkerPool {
	wp := &WorkerPool{
		renderer: renderer,
		logger:   logger,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:       i,
			renderer: renderer,
			// Stream is replaced per pixel in RenderBand
			sampler:  core.NewRandomSampler(renderer.seed, 0),
			logger:   logger,
		})
	}

	return wp
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return len(wp.workers)
}

// Run hands task i to worker i, starts every worker and blocks until all of them finish.
// Results are indexed by TaskID regardless of completion order.
func (wp *WorkerPool) Run(tasks []BandTask) ([]BandResult, error) {
	if len(tasks) != len(wp.workers) {
		return nil, fmt.Errorf("worker pool has %d workers for %d tasks", len(wp.workers), len(tasks))
	}

	// Every task writes its own result slot, so IDs must be a permutation of 0..n-1
	seen := make([]bool, len(tasks))
	for _, task := range tasks {
		if task.TaskID < 0 || task.TaskID >= len(tasks) || seen[task.TaskID] {
			return nil, fmt.Errorf("invalid or duplicate task ID %d", task.TaskID)
		}
		seen[task.TaskID] = true
	}

	results := make([]BandResult, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go wp.workers[i].run(task, &results[task.TaskID], &wg)
	}
	wg.Wait()

	for _, result := range results {
		if result.Error != nil {
			return results, result.Error
		}
	}
	return results, nil
}

// run renders a single band; a panic fails the band instead of the process
func (w *Worker) run(task BandTask, result *BandResult, wg *sync.WaitGroup) {
	defer wg.Done()

	band := task.Buffer.Band
	result.TaskID = task.TaskID

	defer func() {
		if r := recover(); r != nil {
			w.logger.Printf("Worker %d: band %d panicked: %v\n%s", w.ID, band.Index, r, debug.Stack())
			result.Error = fmt.Errorf("band %d (columns %d-%d) failed: %v", band.Index, band.Start, band.End-1, r)
		}
	}()

	w.logger.Printf("Worker %d: rendering band %d, columns %d to %d\n", w.ID, band.Index, band.Start, band.End)
	result.Stats = w.renderer.RenderBand(task.Buffer, w.sampler, w.logger)
	w.logger.Printf("Worker %d: band %d done in %v\n", w.ID, band.Index, result.Stats.Duration)
}
