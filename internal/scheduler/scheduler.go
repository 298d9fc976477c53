package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/replantlab/missiond/internal/logger"
	"github.com/replantlab/missiond/internal/worker"
)

// Scheduler fans periodic jobs out to the worker pool. It only owns the
// tickers; execution, panic recovery and error logging happen in the pool.
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	wg         sync.WaitGroup
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. A tick that finds the
// queue full is dropped; the next tick retries the same work.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.workerPool.TryEnqueue(job) {
					logger.FromContext(context.Background()).Warn("Scheduler tick dropped, queue full",
						"interval", interval)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}
