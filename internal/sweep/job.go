package sweep

import (
	"context"
	"time"
)

// Job adapts the sweep to the worker pool
type Job struct {
	svc Service
}

func NewJob(svc Service) *Job {
	return &Job{svc: svc}
}

func (j *Job) Process(ctx context.Context) error {
	return j.svc.Run(ctx, time.Now())
}
