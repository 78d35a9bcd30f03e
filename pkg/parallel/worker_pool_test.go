package parallel

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dd0wney/cluso-communities/pkg/logging"
)

func newPool(t *testing.T, workers int) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool(%d) error: %v", workers, err)
	}
	return pool
}

func TestWorkerPoolWorkerCount(t *testing.T) {
	tests := []struct {
		workers int
		want    int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{16, 16},
	}

	for _, tt := range tests {
		pool := newPool(t, tt.workers)
		if pool.Workers() != tt.want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", tt.workers, pool.Workers(), tt.want)
		}
		if cap(pool.tasks) != tt.want*2 {
			t.Errorf("queue capacity = %d, want %d", cap(pool.tasks), tt.want*2)
		}
		pool.Close()
	}
}

func TestWorkerPoolOverflow(t *testing.T) {
	_, err := NewWorkerPool(math.MaxInt, nil)
	if !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("NewWorkerPool(MaxInt) error = %v, want ErrTooManyWorkers", err)
	}
}

func TestWorkerPoolExecutesAllTasks(t *testing.T) {
	pool := newPool(t, 5)

	const numTasks = 50
	executed := make([]bool, numTasks)
	var mu sync.Mutex
	for i := 0; i < numTasks; i++ {
		taskID := i
		pool.Submit(func() {
			mu.Lock()
			executed[taskID] = true
			mu.Unlock()
		})
	}
	pool.Close()

	for i, ok := range executed {
		if !ok {
			t.Errorf("task %d was not executed", i)
		}
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 2)
	pool.Close()

	if pool.Submit(func() { t.Error("task ran after close") }) {
		t.Error("Submit after Close returned true")
	}
}

func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool := newPool(t, 4)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() { time.Sleep(time.Millisecond) })
				}
			}()
		}

		time.Sleep(2 * time.Millisecond)
		pool.Close()
		pool.Close()
		wg.Wait()
	}
}

func TestWorkerPoolRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	pool, err := NewWorkerPool(2, logging.NewJSONLogger(&buf, logging.ErrorLevel))
	if err != nil {
		t.Fatal(err)
	}

	var counter int64
	for i := 0; i < 3; i++ {
		pool.Submit(func() { panic("boom") })
	}
	for i := 0; i < 10; i++ {
		pool.Submit(func() { atomic.AddInt64(&counter, 1) })
	}
	pool.Close()

	if counter != 10 {
		t.Errorf("counter = %d, want 10", counter)
	}
	if got := strings.Count(buf.String(), "worker task panicked"); got != 3 {
		t.Errorf("logged %d panics, want 3", got)
	}
}

func TestMap_PreservesOrder(t *testing.T) {
	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	got, err := Map(3, nil, inputs, func(x int) (int, error) {
		time.Sleep(time.Duration(8-x) * time.Millisecond)
		return x * x, nil
	})
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}
	for i, x := range inputs {
		if got[i] != x*x {
			t.Errorf("result[%d] = %d, want %d", i, got[i], x*x)
		}
	}
}

func TestMap_JoinsErrors(t *testing.T) {
	errOdd := errors.New("odd input")
	got, err := Map(2, nil, []int{0, 1, 2, 3}, func(x int) (string, error) {
		if x == 3 {
			panic("three")
		}
		if x%2 == 1 {
			return "", errOdd
		}
		return "ok", nil
	})

	if !errors.Is(err, errOdd) {
		t.Fatalf("Map error = %v, want errOdd", err)
	}
	if !strings.Contains(err.Error(), "job 3 panicked") {
		t.Errorf("Map error %q does not report the panic", err)
	}
	if got[0] != "ok" || got[1] != "" || got[2] != "ok" {
		t.Errorf("results = %q", got)
	}
}

func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool, _ := NewWorkerPool(10, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func() {})
	}
	pool.Close()
}
