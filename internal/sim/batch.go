package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Job builds and runs one independent scene. Worlds are never shared between
// jobs, so each job may step its own world on its own goroutine.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Batch runs independent scene jobs concurrently.
type Batch struct {
	jobs []Job
}

func NewBatch(jobs ...Job) *Batch {
	return &Batch{jobs: jobs}
}

func (b *Batch) Add(job Job) { b.jobs = append(b.jobs, job) }

func (b *Batch) Len() int { return len(b.jobs) }

// Run waits for every job and joins their errors, each prefixed with the
// job name.
func (b *Batch) Run(ctx context.Context) error {
	errs := make([]error, len(b.jobs))

	var wg sync.WaitGroup
	for i, job := range b.jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()
			if err := job.Run(ctx); err != nil {
				errs[idx] = fmt.Errorf("%s: %w", job.Name, err)
			}
		}(i, job)
	}

	wg.Wait()
	return errors.Join(errs...)
}
