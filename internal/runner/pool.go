package runner

import "sync"

type Job func() error

// RunPool executes jobs with at most maxWorkers running concurrently
// and returns every error the jobs produced. Trials are independent,
// so parallel execution is purely a scheduling change.
func RunPool(maxWorkers int, jobs []Job) []error {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	work := make(chan Job)
	results := make(chan error, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range work {
				if err := job(); err != nil {
					results <- err
				}
			}
		}()
	}

	for _, job := range jobs {
		work <- job
	}
	close(work)
	wg.Wait()
	close(results)

	var errs []error
	for err := range results {
		errs = append(errs, err)
	}
	return errs
}
