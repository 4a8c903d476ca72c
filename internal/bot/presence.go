package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/commands"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/internal/settings"
)

// Latency thresholds of the auto status.
const (
	OnlineLatency = 250 * time.Millisecond
	IdleLatency   = 500 * time.Millisecond
)

// StatusJobSpec is how often the auto status is refreshed.
const StatusJobSpec = "@every 1m"

// HandleReady refreshes the owners and the presence after every gateway
// Ready. The first one announces the bot start.
func (b *Bot) HandleReady(ctx context.Context) {
	if err := b.refreshOwners(); err != nil {
		b.logger.Warn("Failed to fetch application owners", zap.Error(err))
	}

	b.applyPresence(ctx, b.settings.Get())

	if b.loaded.Swap(true) {
		b.events.Info(ctx, eventlog.Actor{}, eventlog.Source{}, "Reconnected")
		return
	}
	b.events.Critical(ctx, eventlog.Actor{}, eventlog.Source{}, "The pie is ready.")
}

// refreshOwners merges the application owner, or every team member, with
// the configured owners.
func (b *Bot) refreshOwners() error {
	ids := append([]discord.UserID{}, b.ownerIDs...)
	owners := b.acl.Owners()

	if b.apps == nil {
		owners.Set(ids...)
		return nil
	}

	app, err := b.apps.CurrentApplication()
	if err != nil {
		owners.Set(ids...)
		return err
	}

	switch {
	case app.Team != nil:
		for _, m := range app.Team.Members {
			ids = append(ids, m.User.ID)
		}
	case app.Owner != nil:
		ids = append(ids, app.Owner.ID)
	}
	owners.Set(ids...)

	b.logger.Info("Bot owners updated", zap.Int("count", len(owners.IDs())))

	return nil
}

// applyPresence shows "<prefix>help" with the configured status. The auto
// status starts invisible until the status job measures the latency.
func (b *Bot) applyPresence(ctx context.Context, s settings.Settings) {
	status := s.Status
	if status == settings.StatusAuto {
		status = string(discord.InvisibleStatus)
	}

	b.swapStatus(discord.Status(status))
	b.setPresence(ctx, discord.Status(status), s.Prefix)
}

// swapStatus records status and reports whether it differs from the
// previous one.
func (b *Bot) swapStatus(status discord.Status) bool {
	b.statusMu.Lock()
	defer b.statusMu.Unlock()

	if b.status == status {
		return false
	}
	b.status = status

	return true
}

func (b *Bot) setPresence(ctx context.Context, status discord.Status, prefix string) {
	if b.presence == nil {
		return
	}

	if err := b.presence.UpdatePresence(ctx, status, prefix+"help"); err != nil {
		b.logger.Error("Failed to update presence", zap.String("status", string(status)), zap.Error(err))
	}
}

// OnSettingsChange updates the presence when the prefix or status changes.
func (b *Bot) OnSettingsChange(s settings.Settings) {
	ctx, cancel := b.context()
	defer cancel()

	if s.Status == settings.StatusAuto {
		b.RefreshStatus(ctx)
		return
	}
	b.applyPresence(ctx, s)
}

// RefreshStatus sets the presence from the API latency while the status is
// auto. The presence is only sent when the status changes. It is run by the
// scheduler.
func (b *Bot) RefreshStatus(ctx context.Context) {
	s := b.settings.Get()
	if s.Status != settings.StatusAuto || b.prober == nil {
		return
	}

	latency, err := commands.MeasureLatency(b.prober)
	if err != nil {
		b.logger.Warn("Failed to measure latency", zap.Error(err))
		return
	}

	status := StatusForLatency(latency)
	if !b.swapStatus(status) {
		return
	}

	b.events.Info(ctx, eventlog.Actor{}, eventlog.Source{},
		fmt.Sprintf("Latency is %.2f, setting status to %s.", latency.Seconds(), status))
	b.setPresence(ctx, status, s.Prefix)
}

// StatusForLatency maps the API latency to a status.
func StatusForLatency(latency time.Duration) discord.Status {
	switch {
	case latency <= OnlineLatency:
		return discord.OnlineStatus
	case latency <= IdleLatency:
		return discord.IdleStatus
	default:
		return discord.DoNotDisturbStatus
	}
}

// GatewayPresence sends presence updates over the gateway of a State.
type GatewayPresence struct {
	State *state.State
}

// UpdatePresence implements Presence.
func (p GatewayPresence) UpdatePresence(ctx context.Context, status discord.Status, activity string) error {
	return p.State.Gateway().Send(ctx, &gateway.UpdatePresenceCommand{
		Status: status,
		Activities: []discord.Activity{{
			Name: activity,
			Type: discord.GameActivity,
		}},
	})
}
