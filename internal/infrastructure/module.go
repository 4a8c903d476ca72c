// Package infrastructure provides core infrastructure components and their Fx modules.
package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/strawberry-py/strawberry-go/internal/config"
	pkginfra "github.com/strawberry-py/strawberry-go/pkg/infrastructure"
)

// LoggerModule provides logging infrastructure.
var LoggerModule = fx.Module("logger",
	fx.Provide(NewZapLogger),
)

// NewZapLoggerParams holds dependencies for NewZapLogger.
type NewZapLoggerParams struct {
	fx.In
	Cfg *config.Config
	LC  fx.Lifecycle
}

// NewZapLogger creates a zap logger at the configured level. Timestamps are
// written in the bot timezone.
func NewZapLogger(params NewZapLoggerParams) (*zap.Logger, error) {
	zapConfig, err := BuildZapConfig(params.Cfg.LogLevel, params.Cfg.Location())
	if err != nil {
		return nil, err
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}
	logger = logger.With(zap.String("instance", params.Cfg.InstanceName))

	params.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stderr cannot be synced on some platforms
			_ = logger.Sync()
			return nil
		},
	})

	return logger, nil
}

// BuildZapConfig returns the zap configuration for a level name. "debug"
// selects the development preset, everything else the production one.
func BuildZapConfig(level string, loc *time.Location) (zap.Config, error) {
	var zapConfig zap.Config
	switch level {
	case "debug":
		zapConfig = zap.NewDevelopmentConfig()
	case "info", "warn", "error", "":
		zapConfig = zap.NewProductionConfig()
		lvl := zapcore.InfoLevel
		if level != "" {
			if err := lvl.UnmarshalText([]byte(level)); err != nil {
				return zap.Config{}, err
			}
		}
		zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	default:
		return zap.Config{}, fmt.Errorf("%w: unknown log level %q", config.ErrInvalidConfig, level)
	}

	if loc == nil {
		loc = time.UTC
	}
	zapConfig.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		zapcore.ISO8601TimeEncoder(t.In(loc), enc)
	}

	return zapConfig, nil
}

// NewFxLoggerAdapter creates a new Fx logger adapter using the public package.
func NewFxLoggerAdapter(logger *zap.Logger) fxevent.Logger {
	return pkginfra.NewFxLoggerAdapter(logger)
}
