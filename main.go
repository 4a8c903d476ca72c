// Package main provides the entry point for the strawberry Discord bot.
package main

import (
	"os"

	"go.uber.org/fx"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/app"
	"github.com/strawberry-py/strawberry-go/internal/backup"
	"github.com/strawberry-py/strawberry-go/internal/bot"
	"github.com/strawberry-py/strawberry-go/internal/commands"
	"github.com/strawberry-py/strawberry-go/internal/config"
	"github.com/strawberry-py/strawberry-go/internal/database"
	"github.com/strawberry-py/strawberry-go/internal/discord"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/internal/i18n"
	"github.com/strawberry-py/strawberry-go/internal/infrastructure"
	"github.com/strawberry-py/strawberry-go/internal/modules"
	"github.com/strawberry-py/strawberry-go/internal/scheduler"
	"github.com/strawberry-py/strawberry-go/internal/settings"
	"github.com/strawberry-py/strawberry-go/internal/spamchannel"
	"github.com/strawberry-py/strawberry-go/internal/storage"
	pkginfra "github.com/strawberry-py/strawberry-go/pkg/infrastructure"
)

func main() {
	// Values in the file are overridden by the environment.
	configPath := "config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	application := app.New(
		// Core modules
		config.Module,
		infrastructure.LoggerModule,
		database.Module,
		storage.Module,
		scheduler.Module,

		// Discord
		discord.Module,

		// Bot core
		settings.Module,
		i18n.Module,
		acl.Module,
		eventlog.Module,
		spamchannel.Module,
		modules.Module,
		backup.Module,

		// Application modules
		commands.Module,
		bot.Module,

		// Supply the config path
		fx.Supply(configPath),

		// Configure Fx to use our Zap logger for its own internal logging
		fx.WithLogger(pkginfra.NewFxLoggerAdapter),
	)

	os.Exit(application.Run())
}
