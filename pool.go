package qsurv

import (
	"context"
	"log"
	"sync"
	"time"
)

/*
SweepJob is one (strategy, noise level) point of a benchmark sweep. Results
are keyed by the job, never by completion order, so the sweep is
deterministic regardless of scheduling.
*/
type SweepJob struct {
	Strategy Strategy
	Level    float64
}

// SweepOutcome is the result of one job: either a survival rate or the error
// that aborted that single point.
type SweepOutcome struct {
	Job  SweepJob
	Rate float64
	Err  error
}

/*
pool fans a fixed job list out over a set of workers. Every trial inside a
job is already independent, so the only shared state between workers is the
job feed and the metrics; each worker derives its own seed so no random
stream is ever shared.
*/
type pool struct {
	workers int
	metrics *Metrics
}

func newPool(workers int, metrics *Metrics) *pool {
	if workers < 1 {
		workers = 1
	}
	return &pool{workers: workers, metrics: metrics}
}

// run executes fn for every job and returns the outcomes keyed by job.
// A failing job never stops the others; context cancellation drains the
// remaining feed without running it.
func (p *pool) run(ctx context.Context, jobs []SweepJob, fn func(SweepJob) (float64, error)) map[SweepJob]SweepOutcome {
	feed := make(chan SweepJob, len(jobs))
	for _, job := range jobs {
		feed <- job
	}
	close(feed)

	results := make(chan SweepOutcome, len(jobs))
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range feed {
				if ctx.Err() != nil {
					results <- SweepOutcome{Job: job, Err: ctx.Err()}
					continue
				}
				start := time.Now()
				rate, err := fn(job)
				if p.metrics != nil {
					p.metrics.recordJobExecution(start, err == nil)
				}
				if err != nil {
					log.Printf("sweep point %s p=%g failed: %v", job.Strategy, job.Level, err)
				}
				results <- SweepOutcome{Job: job, Rate: rate, Err: err}
			}
		}()
	}
	wg.Wait()
	close(results)

	out := make(map[SweepJob]SweepOutcome, len(jobs))
	for res := range results {
		out[res.Job] = res
	}
	return out
}
