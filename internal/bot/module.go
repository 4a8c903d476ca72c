// Package bot dispatches Discord interactions to commands, reports their
// errors and keeps the bot presence current.
package bot

import (
	"context"

	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/commands"
	"github.com/strawberry-py/strawberry-go/internal/scheduler"
	"github.com/strawberry-py/strawberry-go/internal/settings"
)

// Module provides the Bot and attaches it to the gateway.
var Module = fx.Module("bot",
	fx.Provide(
		NewBot,
		func(st *state.State) commands.Responder { return st.Client },
		func(st *state.State) Directory { return st },
		func(st *state.State) Applications { return st.Client },
		func(st *state.State) Presence { return GatewayPresence{State: st} },
	),
	fx.Invoke(Register),
)

// RegisterParams are the dependencies of Register.
type RegisterParams struct {
	fx.In

	LC        fx.Lifecycle
	Bot       *Bot
	State     *state.State
	Catalog   *commands.Catalog
	Settings  *settings.Service
	Scheduler *scheduler.Scheduler
	Logger    *zap.Logger
}

// Register adds the gateway handlers, schedules the status job and uploads
// the commands once the session is open.
func Register(p RegisterParams) error {
	b := p.Bot

	p.State.AddHandler(func(e *gateway.InteractionCreateEvent) {
		ctx, cancel := b.context()
		defer cancel()

		b.HandleInteraction(ctx, &e.InteractionEvent)
	})
	p.State.AddHandler(func(*gateway.ReadyEvent) {
		ctx, cancel := b.context()
		defer cancel()

		b.HandleReady(ctx)
	})
	p.Settings.OnChange(b.OnSettingsChange)

	if err := p.Scheduler.Add("status", StatusJobSpec, b.RefreshStatus); err != nil {
		return err
	}

	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("Registering slash commands")
			return p.Catalog.Sync(ctx)
		},
		OnStop: func(context.Context) error {
			b.Stop()
			return nil
		},
	})

	return nil
}
