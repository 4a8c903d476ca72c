// Package infrastructure bridges fx's own logging onto zap.
package infrastructure

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// FxLogger routes fx lifecycle events and printer output to a zap logger.
// Routine events are logged at debug level, failures at error level.
type FxLogger struct {
	logger *zap.Logger
}

// NewFxLoggerAdapter returns an fxevent.Logger writing to logger.
func NewFxLoggerAdapter(logger *zap.Logger) fxevent.Logger {
	return &FxLogger{logger: logger.Named("fx")}
}

// NewFxPrinter returns an fx.Printer writing to logger.
func NewFxPrinter(logger *zap.Logger) fx.Printer {
	return &FxLogger{logger: logger.Named("fx")}
}

// LogEvent implements fxevent.Logger.
func (l *FxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("on start hook executing",
			zap.String("callee", e.FunctionName),
			zap.String("caller", e.CallerName))
	case *fxevent.OnStartExecuted:
		l.hookResult("on start hook", e.FunctionName, e.CallerName, e.Runtime.String(), e.Err)
	case *fxevent.OnStopExecuting:
		l.logger.Debug("on stop hook executing",
			zap.String("callee", e.FunctionName),
			zap.String("caller", e.CallerName))
	case *fxevent.OnStopExecuted:
		l.hookResult("on stop hook", e.FunctionName, e.CallerName, e.Runtime.String(), e.Err)
	case *fxevent.Supplied:
		l.result("supplied", e.Err, zap.String("type", e.TypeName), moduleField(e.ModuleName))
	case *fxevent.Provided:
		l.result("provided", e.Err,
			zap.String("constructor", e.ConstructorName),
			zap.Strings("types", e.OutputTypeNames),
			moduleField(e.ModuleName))
	case *fxevent.Decorated:
		l.result("decorated", e.Err,
			zap.String("decorator", e.DecoratorName),
			zap.Strings("types", e.OutputTypeNames),
			moduleField(e.ModuleName))
	case *fxevent.Invoking:
		l.logger.Debug("invoking", zap.String("function", e.FunctionName), moduleField(e.ModuleName))
	case *fxevent.Invoked:
		l.result("invoked", e.Err, zap.String("function", e.FunctionName), moduleField(e.ModuleName))
	case *fxevent.Stopping:
		l.logger.Info("received signal", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		l.outcome("stopped", e.Err)
	case *fxevent.RollingBack:
		l.logger.Error("start failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		l.outcome("rolled back", e.Err)
	case *fxevent.Started:
		l.outcome("started", e.Err)
	case *fxevent.LoggerInitialized:
		l.result("initialized custom logger", e.Err, zap.String("constructor", e.ConstructorName))
	default:
		l.logger.Debug("unhandled event", zap.String("type", fmt.Sprintf("%T", event)))
	}
}

// Printf implements fx.Printer.
func (l *FxLogger) Printf(format string, args ...any) {
	l.logger.Sugar().Infof(format, args...)
}

func (l *FxLogger) hookResult(msg, callee, caller, runtime string, err error) {
	fields := []zap.Field{zap.String("callee", callee), zap.String("caller", caller)}
	if err != nil {
		l.logger.Error(msg+" failed", append(fields, zap.Error(err))...)
		return
	}
	l.logger.Debug(msg+" executed", append(fields, zap.String("runtime", runtime))...)
}

func (l *FxLogger) result(msg string, err error, fields ...zap.Field) {
	if err != nil {
		l.logger.Error(msg+" with error", append(fields, zap.Error(err))...)
		return
	}
	l.logger.Debug(msg, fields...)
}

// outcome logs application level transitions, which are worth an info line.
func (l *FxLogger) outcome(msg string, err error) {
	if err != nil {
		l.logger.Error(msg+" with error", zap.Error(err))
		return
	}
	l.logger.Info(msg)
}

func moduleField(name string) zap.Field {
	if name == "" {
		return zap.Skip()
	}

	return zap.String("module", name)
}
