package bot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/commands"
	"github.com/strawberry-py/strawberry-go/internal/config"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/internal/i18n"
	"github.com/strawberry-py/strawberry-go/internal/modules"
	"github.com/strawberry-py/strawberry-go/internal/settings"
	"github.com/strawberry-py/strawberry-go/internal/spamchannel"
)

const interactionTimeout = 15 * time.Minute

// Directory looks up cached guild objects. It is satisfied by *state.State.
type Directory interface {
	Guild(id discord.GuildID) (*discord.Guild, error)
	Channel(id discord.ChannelID) (*discord.Channel, error)
	Role(guildID discord.GuildID, roleID discord.RoleID) (*discord.Role, error)
}

// Applications fetches the application the bot runs as. It is satisfied by
// *api.Client.
type Applications interface {
	CurrentApplication() (*discord.Application, error)
}

// Presence updates the status shown next to the bot.
type Presence interface {
	UpdatePresence(ctx context.Context, status discord.Status, activity string) error
}

// Bot dispatches interactions to commands and keeps the presence current.
type Bot struct {
	commands   *commands.CommandManager
	acl        *acl.Service
	guard      *spamchannel.Guard
	registry   *modules.Registry
	translator *i18n.Translator
	settings   *settings.Service
	events     *eventlog.Logger
	responder  commands.Responder
	dir        Directory
	apps       Applications
	presence   Presence
	prober     commands.Prober
	ownerIDs   []discord.UserID
	logger     *zap.Logger

	loaded atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc

	// status is the last status sent to the gateway.
	statusMu sync.Mutex
	status   discord.Status
}

// NewBotParameters holds dependencies for NewBot.
type NewBotParameters struct {
	fx.In

	Cfg        *config.Config
	Commands   *commands.CommandManager
	ACL        *acl.Service
	Guard      *spamchannel.Guard
	Registry   *modules.Registry
	Translator *i18n.Translator `optional:"true"`
	Settings   *settings.Service
	EventLog   *eventlog.EventLog
	Responder  commands.Responder
	Directory  Directory
	Apps       Applications
	Presence   Presence
	Prober     commands.Prober
	Logger     *zap.Logger
}

// NewBot creates a Bot.
func NewBot(params NewBotParameters) (*Bot, error) {
	if params.Commands == nil {
		return nil, errors.New("command manager provided to NewBot is nil")
	}
	if params.Responder == nil {
		return nil, errors.New("responder provided to NewBot is nil")
	}

	var ownerIDs []discord.UserID
	if params.Cfg != nil {
		ownerIDs = params.Cfg.Discord.OwnerIDs
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		commands:   params.Commands,
		acl:        params.ACL,
		guard:      params.Guard,
		registry:   params.Registry,
		translator: params.Translator,
		settings:   params.Settings,
		events:     params.EventLog.Bot(),
		responder:  params.Responder,
		dir:        params.Directory,
		apps:       params.Apps,
		presence:   params.Presence,
		prober:     params.Prober,
		ownerIDs:   ownerIDs,
		logger:     params.Logger.Named("bot"),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Stop cancels the interactions still in flight.
func (b *Bot) Stop() {
	b.cancel()
}

func (b *Bot) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(b.ctx, interactionTimeout)
}
