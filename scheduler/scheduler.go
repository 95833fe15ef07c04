package scheduler

import (
	"context"

	"empowerment/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one periodic task. It reports how many items it handled.
type Job struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// Start registers every job on spec and starts the cron runner. Stop the
// returned cron on shutdown.
func Start(ctx context.Context, spec string, jobs ...Job) (*cron.Cron, error) {
	logger.Log.Info("[SCHEDULER] initializing", zap.String("spec", spec), zap.Int("jobs", len(jobs)))

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	for _, job := range jobs {
		job := job
		if _, err := c.AddFunc(spec, func() { RunOnce(ctx, job) }); err != nil {
			return nil, err
		}
	}

	c.Start()
	logger.Log.Info("[SCHEDULER] started")
	return c, nil
}

// RunOnce executes a job and logs the outcome.
func RunOnce(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}
	n, err := job.Run(ctx)
	if err != nil {
		logger.Log.Warn("[SCHEDULER] job failed", zap.String("job", job.Name), zap.Int("handled", n), zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("[SCHEDULER] job done", zap.String("job", job.Name), zap.Int("handled", n))
	}
}
