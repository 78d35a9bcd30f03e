package parallel

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-communities/pkg/logging"
)

// Map applies fn to every input on a pool of workers and returns the results
// in input order. Failed or panicking jobs leave a zero result and contribute
// an error naming their index; the errors are joined.
func Map[T, R any](workers int, logger logging.Logger, inputs []T, fn func(T) (R, error)) ([]R, error) {
	pool, err := NewWorkerPool(workers, logger)
	if err != nil {
		return nil, err
	}

	results := make([]R, len(inputs))
	errs := make([]error, len(inputs))
	for i, in := range inputs {
		i, in := i, in
		pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("job %d panicked: %v", i, r)
				}
			}()
			out, err := fn(in)
			if err != nil {
				errs[i] = fmt.Errorf("job %d: %w", i, err)
				return
			}
			results[i] = out
		})
	}
	pool.Close()

	return results, errors.Join(errs...)
}
