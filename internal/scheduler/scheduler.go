// Package scheduler runs periodic jobs in the bot timezone.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the Scheduler and ties it to the application lifecycle.
var Module = fx.Module("scheduler",
	fx.Provide(NewSchedulerProvider),
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context)

// Scheduler wraps a cron runner. Jobs of one entry never overlap: a run that
// is due while the previous one is still going is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler evaluating specs in loc.
func New(loc *time.Location, logger *zap.Logger) *Scheduler {
	logger = logger.Named("scheduler")
	cronLogger := cronLogger{logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add schedules job on a standard cron spec or a descriptor such as @daily.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		job(s.ctx)
		s.logger.Debug("Job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	s.logger.Info("Job scheduled", zap.String("job", name), zap.String("spec", spec))

	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SchedulerParams are the dependencies of the Scheduler.
type SchedulerParams struct {
	fx.In

	LC       fx.Lifecycle
	Location *time.Location
	Logger   *zap.Logger
}

// NewSchedulerProvider creates the Scheduler and starts it with the application.
func NewSchedulerProvider(p SchedulerParams) *Scheduler {
	s := New(p.Location, p.Logger)

	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})

	return s
}

type cronLogger struct {
	*zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.Errorw(msg, append(keysAndValues, "error", err)...)
}
