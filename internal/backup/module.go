package backup

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/config"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/internal/scheduler"
)

// Module provides the backup Service and schedules it.
var Module = fx.Module("backup",
	fx.Provide(NewServiceProvider),
	fx.Invoke(Schedule),
)

// ServiceParams are the dependencies of the Service.
type ServiceParams struct {
	fx.In

	Cfg      *config.Config
	EventLog *eventlog.EventLog
	Logger   *zap.Logger
}

// NewServiceProvider builds a pg_dump backed Service from the configuration.
func NewServiceProvider(p ServiceParams) *Service {
	return NewService(
		PgDump{DSN: p.Cfg.Database.DSN},
		Options{
			Dir:      p.Cfg.Backup.Path,
			Instance: p.Cfg.InstanceName,
			Keep:     p.Cfg.Backup.Keep,
			Location: p.Cfg.Location(),
		},
		p.EventLog.Bot().Module("backup"),
		p.Logger,
	)
}

// Schedule registers the backup job unless the schedule is empty.
func Schedule(cfg *config.Config, s *Service, sched *scheduler.Scheduler, logger *zap.Logger) error {
	if cfg.Backup.Schedule == "" {
		logger.Info("Scheduled backups are disabled")
		return nil
	}

	return sched.Add("backup", cfg.Backup.Schedule, func(ctx context.Context) {
		if _, err := s.Run(ctx); err != nil {
			logger.Error("Scheduled backup failed", zap.Error(err))
		}
	})
}
