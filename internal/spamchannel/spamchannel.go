// Package spamchannel keeps noisy commands inside designated channels.
//
// Commands marked soft may run a few times per channel before they are
// redirected. Commands marked hard only run in spam channels.
package spamchannel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/acl"
)

const (
	DefaultWindow = 3 * time.Minute
	DefaultLimit  = 3
)

var (
	// ErrLimitReached is returned when an invocation has to move to a spam
	// channel.
	ErrLimitReached = errors.New("spam channel limit reached")
	ErrExists       = errors.New("channel is already a spam channel")
	// ErrNotSpamChannel is returned for channels that are not registered.
	ErrNotSpamChannel = errors.New("channel is not a spam channel")
)

// LimitError names the channel the user is redirected to.
type LimitError struct {
	ChannelID discord.ChannelID
	Hard      bool
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s, use channel %s", ErrLimitReached, e.ChannelID)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLimitReached
}

// Mode selects how a command treats spam channels.
type Mode int

const (
	// Off ignores spam channels.
	Off Mode = iota
	// Soft allows a few invocations per channel and window.
	Soft
	// Hard refuses every invocation outside of spam channels.
	Hard
)

// Manager counts invocations per channel over a sliding window.
//
// Once a channel uses up the limit it is frozen. Invocations in a frozen
// channel are refused and do not extend the window.
type Manager struct {
	window time.Duration
	limit  int

	mu       sync.Mutex
	cooldown map[discord.ChannelID][]time.Time
	frozen   map[discord.ChannelID]bool
}

// NewManager creates a Manager allowing limit invocations per window.
func NewManager(window time.Duration, limit int) *Manager {
	return &Manager{
		window:   window,
		limit:    limit,
		cooldown: make(map[discord.ChannelID][]time.Time),
		frozen:   make(map[discord.ChannelID]bool),
	}
}

// Block records an invocation at t and reports whether it must be refused.
func (m *Manager) Block(channelID discord.ChannelID, t time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	recent := m.cooldown[channelID][:0]
	for _, ts := range m.cooldown[channelID] {
		if t.Sub(ts) <= m.window {
			recent = append(recent, ts)
		}
	}
	m.cooldown[channelID] = recent

	count := len(recent)
	switch {
	case count < m.limit && m.frozen[channelID]:
		m.frozen[channelID] = false
	case count == m.limit && !m.frozen[channelID]:
		m.frozen[channelID] = true
	}
	if count >= m.limit {
		return true
	}

	m.cooldown[channelID] = append(recent, t)

	return false
}

// Frozen reports whether the channel has used up its limit.
func (m *Manager) Frozen(channelID discord.ChannelID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.frozen[channelID]
}

// Guard decides whether an invocation may run in its channel.
type Guard struct {
	store   Store
	owners  *acl.Owners
	manager *Manager
	logger  *zap.Logger
	now     func() time.Time
}

// NewGuard creates a Guard with the default limits.
func NewGuard(store Store, owners *acl.Owners, logger *zap.Logger) *Guard {
	return &Guard{
		store:   store,
		owners:  owners,
		manager: NewManager(DefaultWindow, DefaultLimit),
		logger:  logger.Named("spamchannel"),
		now:     time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (g *Guard) SetClock(now func() time.Time) {
	g.now = now
}

// Check returns the channel the invoker should be pointed to, or zero when
// the invocation runs where it is. A *LimitError is returned when the
// invocation must not run at all.
func (g *Guard) Check(ctx context.Context, inv acl.Invoker, mode Mode) (discord.ChannelID, error) {
	if mode == Off || g.owners.IsOwner(inv.UserID) || !inv.GuildID.IsValid() {
		return 0, nil
	}

	channels, err := g.store.List(ctx, inv.GuildID)
	if err != nil {
		return 0, fmt.Errorf("failed to list spam channels: %w", err)
	}
	if len(channels) == 0 {
		return 0, nil
	}

	redirect := channels[0].ChannelID
	for _, ch := range channels {
		if ch.ChannelID == inv.ChannelID {
			return 0, nil
		}
		if ch.Primary {
			redirect = ch.ChannelID
		}
	}

	if mode == Hard {
		g.logger.Debug("Command blocked", zap.String("limit", "hard"), zap.Stringer("channel", inv.ChannelID))
		return redirect, &LimitError{ChannelID: redirect, Hard: true}
	}
	if g.manager.Block(inv.ChannelID, g.now()) {
		g.logger.Debug("Command blocked", zap.String("limit", "soft"), zap.Stringer("channel", inv.ChannelID))
		return redirect, &LimitError{ChannelID: redirect}
	}

	return redirect, nil
}
