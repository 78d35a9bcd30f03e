// Package parallel runs independent optimiser jobs on a bounded set of
// goroutines. A single optimiser run is always sequential.
package parallel

import (
	"fmt"
	"math"
	"sync"

	"github.com/dd0wney/cluso-communities/pkg/logging"
)

// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool
const MaxWorkers = math.MaxInt / 2

// WorkerPool executes submitted tasks on a fixed number of goroutines
type WorkerPool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards tasks against close during send
	closed  bool
	logger  logging.Logger
}

// NewWorkerPool starts a pool of workers. Non-positive counts select one
// worker. A nil logger discards panic reports.
func NewWorkerPool(workers int, logger logging.Logger) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	pool := &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
		logger:  logger,
	}
	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}
	return pool, nil
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.logger.Error("worker task panicked",
						logging.Int("worker", id),
						logging.String("panic", fmt.Sprint(r)),
					)
				}
			}()
			task()
		}()
	}
}

// Submit queues a task. It reports false once the pool is closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.tasks <- task
	return true
}

// Close stops accepting tasks and waits for queued ones to finish. It is
// safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.tasks)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workers
}
