// Package commands provides the slash command framework, the built-in
// commands and their Fx module.
package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/state"
	"go.uber.org/fx"

	"github.com/strawberry-py/strawberry-go/internal/config"
	"github.com/strawberry-py/strawberry-go/internal/modules"
)

// Module provides command-related dependencies.
var Module = fx.Module("commands",
	fx.Provide(
		func(st *state.State, cfg *config.Config) *Catalog {
			return NewCatalog(st.Client, cfg.Discord.GuildIDs)
		},
		func(st *state.State) Directory { return st },
		func(st *state.State) Prober { return st.Client },
		NewCommandManager,

		AsCommand(NewPingCommand),
		AsCommand(NewVersionCommand),
		AsCommand(NewHelpCommand),
		AsCommand(NewACLCommand),
		AsCommand(NewLanguageCommand),
		AsCommand(NewLoggingCommand),
		AsCommand(NewConfigCommand),
		AsCommand(NewSpamChannelCommand),
		AsCommand(NewModuleCommand),
		AsCommand(NewStrawberryCommand),
	),
	fx.Invoke(RegisterModules),
)

// AsCommand annotates a constructor so its result joins the commands group.
func AsCommand(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Command)),
		fx.ResultTags(`group:"commands"`),
	)
}

// RegisterModules makes the modules of all loaded commands known to the
// registry and loads their state on start.
func RegisterModules(lc fx.Lifecycle, cm *CommandManager, registry *modules.Registry) {
	registry.Protect(ModuleBase, ModuleAdmin)
	registry.Register(cm.Modules()...)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return registry.Load(ctx) },
	})
}
