package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"erpr_backend/internals/logging"
)

type Job func(ctx context.Context) error

// DefaultTimeout bounds a single run of a scheduled job.
const DefaultTimeout = 5 * time.Minute

// Runner fires in-process jobs on wall-clock cron schedules (UTC).
// A job still running when its next slot comes is skipped for that slot.
type Runner struct {
	ctx     context.Context
	cron    *cron.Cron
	Timeout time.Duration
}

func New(ctx context.Context) *Runner {
	l := cronLogger{}
	return &Runner{
		ctx: ctx,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		Timeout: DefaultTimeout,
	}
}

// Schedule registers fn under a standard 5-field spec or a descriptor
// such as "@hourly" or "@every 15m".
func (r *Runner) Schedule(spec, name string, fn Job) error {
	_, err := r.cron.AddFunc(spec, func() {
		if r.ctx.Err() != nil {
			return
		}
		ctx, cancel := context.WithTimeout(r.ctx, r.Timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			logging.L().Warnw("scheduled job failed", "job", name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	logging.L().Infow("job scheduled", "job", name, "schedule", spec)
	return nil
}

func (r *Runner) Start() { r.cron.Start() }

// Stop halts the scheduler and blocks until running jobs return.
func (r *Runner) Stop() { <-r.cron.Stop().Done() }

// cronLogger routes robfig/cron's logs through zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logging.L().Debugw("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logging.L().Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
