// Package app provides the main application structure and lifecycle management.
package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/config"
)

// ExitFailure is returned by Run when the application cannot start or stop.
const ExitFailure = 1

// Application represents the main application with its lifecycle.
type Application struct {
	app *fx.App
}

// New creates a new Application with the provided modules and options.
func New(modules ...fx.Option) *Application {
	options := append(modules, fx.Invoke(registerLifecycleHooks))

	return &Application{
		app: fx.New(options...),
	}
}

// Run starts the application and blocks until a signal arrives or a
// component asks for shutdown. It returns the exit code to report to the
// host system.
func (a *Application) Run() int {
	startCtx, cancel := context.WithTimeout(context.Background(), a.app.StartTimeout())
	defer cancel()

	if err := a.app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start application: %v\n", err)
		return ExitFailure
	}

	sig := <-a.app.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.app.StopTimeout())
	defer cancel()

	if err := a.app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		return ExitFailure
	}

	return sig.ExitCode
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	return a.app.Stop(ctx)
}

// registerLifecycleHooks logs the application start and stop.
func registerLifecycleHooks(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("Application started successfully", zap.String("timezone", cfg.Location().String()))

			return nil
		},
		OnStop: func(context.Context) error {
			logger.Info("Stopping application")

			return nil
		},
	})
}
