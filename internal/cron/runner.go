package cronrunner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner wraps the cron scheduler with a base context so every scheduled job
// observes process shutdown, and logs each job's start and duration.
type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// AddEvery schedules job to run at a fixed interval.
func (r *Runner) AddEvery(name string, every time.Duration, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddJob("@every "+every.String(), cron.FuncJob(func() {
		r.run(name, job)
	}))
}

// Add schedules job with a cron spec (seconds field included).
func (r *Runner) Add(name, spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		r.run(name, job)
	})
}

func (r *Runner) run(name string, job func(context.Context)) {
	ctx := r.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	job(ctx)
	if r.logger != nil {
		r.logger.Debug("cron job finished",
			zap.String("job", name),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func (r *Runner) Start() {
	if r.logger != nil {
		r.logger.Info("cron started")
	}
	r.cron.Start()
}

// Stop halts scheduling and blocks until running jobs return.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	if r.logger != nil {
		r.logger.Info("cron stopped")
	}
}
