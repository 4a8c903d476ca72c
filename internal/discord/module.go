// Package discord provides Discord-related infrastructure and Fx modules.
package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/diamondburned/arikawa/v3/state/store/defaultstore"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/config"
)

// Module provides Discord-related dependencies.
var Module = fx.Module("discord",
	fx.Provide(
		NewSession,
		NewState,
		ProvideApplicationID,
	),
)

// SessionParams holds dependencies for NewSession.
type SessionParams struct {
	fx.In
	Cfg    *config.Config
	LC     fx.Lifecycle
	Logger *zap.Logger
}

// SessionResult holds results from NewSession.
type SessionResult struct {
	fx.Out
	Session *session.Session
}

// NewSession creates a Discord session that is opened and closed with the
// application.
func NewSession(params SessionParams) (SessionResult, error) {
	if params.Cfg.Discord.Token == "" {
		return SessionResult{}, errors.New("discord bot token is not set in config")
	}

	s := session.New("Bot " + params.Cfg.Discord.Token)
	s.AddIntents(gateway.IntentGuilds)

	params.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Logger.Info("Opening Discord session...")

			return s.Open(ctx)
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing Discord session...")

			return s.Close()
		},
	})

	return SessionResult{Session: s}, nil
}

// StateParams holds dependencies for NewState.
type StateParams struct {
	fx.In
	Session *session.Session
	Logger  *zap.Logger
}

// StateResult holds results from NewState.
type StateResult struct {
	fx.Out
	State *state.State
}

// NewState wraps the Session with a cache of guilds, channels and roles.
func NewState(params StateParams) StateResult {
	st := state.NewFromSession(params.Session, defaultstore.New())

	params.Logger.Debug("Created Discord state from session with default stores")

	return StateResult{State: st}
}

// ProvideApplicationID returns the configured application ID, or asks
// Discord for it when none is configured.
func ProvideApplicationID(cfg *config.Config, st *state.State, logger *zap.Logger) (discord.AppID, error) {
	appID := cfg.Discord.ApplicationID
	if !appID.IsValid() {
		app, err := st.CurrentApplication()
		if err != nil {
			return 0, fmt.Errorf("failed to fetch application ID: %w", err)
		}
		appID = app.ID
	}

	logger.Info("Providing Discord AppID", zap.Stringer("appID", appID))

	return appID, nil
}
