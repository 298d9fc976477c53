package assign

import (
	"context"
	"time"
)

// TickJob adapts the assignment tick to the worker pool
type TickJob struct {
	svc Service
}

func NewTickJob(svc Service) *TickJob {
	return &TickJob{svc: svc}
}

func (j *TickJob) Process(ctx context.Context) error {
	return j.svc.RunTick(ctx, time.Now())
}
