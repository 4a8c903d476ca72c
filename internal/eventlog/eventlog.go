// Package eventlog records bot and guild events to the process log, daily
// JSON files and subscribed Discord channels.
package eventlog

import (
	"context"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/pkg/text"
)

const unavailableTarget = "Log event target is not available"

// Sender delivers messages to Discord channels. *state.State implements it.
type Sender interface {
	SendMessage(channelID discord.ChannelID, content string, embeds ...discord.Embed) (*discord.Message, error)
}

// EventLog routes entries to their destinations.
type EventLog struct {
	store  Store
	sender Sender
	file   *FileSink
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// New creates an EventLog. file may be nil to disable the file sink.
func New(store Store, sender Sender, file *FileSink, loc *time.Location, logger *zap.Logger) *EventLog {
	if loc == nil {
		loc = time.UTC
	}

	return &EventLog{
		store:  store,
		sender: sender,
		file:   file,
		logger: logger.Named("eventlog"),
		loc:    loc,
		now:    time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (l *EventLog) SetClock(now func() time.Time) {
	l.now = now
}

// Bot returns the logger for bot-wide events.
func (l *EventLog) Bot() *Logger {
	return &Logger{log: l, scope: ScopeBot}
}

// Guild returns the logger for events confined to one guild.
func (l *EventLog) Guild() *Logger {
	return &Logger{log: l, scope: ScopeGuild}
}

// Log records e. A zero timestamp is set to the current time.
func (l *EventLog) Log(ctx context.Context, e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	e.Timestamp = e.Timestamp.In(l.loc)

	if ce := l.logger.Check(e.Level.zapLevel(), e.String()); ce != nil {
		ce.Write(e.zapFields()...)
	}

	if l.file != nil {
		if err := l.file.Write(e); err != nil {
			l.logger.Error("Failed to write event log file", zap.Error(err))
		}
	}

	l.deliver(ctx, e)
}

func (l *EventLog) deliver(ctx context.Context, e Entry) {
	if l.store == nil || l.sender == nil {
		return
	}

	subs, err := l.store.Subscriptions(ctx, e.Scope, e.Level, e.Module)
	if err != nil {
		l.logger.Error("Failed to load log subscriptions", zap.Error(err))
		return
	}

	subs = Select(subs, e.Module)
	if e.Scope == ScopeGuild {
		subs = filterGuild(subs, e.Source.GuildID)
	}
	if len(subs) == 0 {
		return
	}

	chunks := text.Split(e.FormatDiscord(), text.MessageLimit)
	for _, sub := range subs {
		if err := l.send(sub.ChannelID, chunks); err != nil {
			// the warning itself may be undeliverable
			if strings.HasPrefix(e.Message, unavailableTarget) {
				return
			}

			l.Log(ctx, Entry{
				Scope:   ScopeBot,
				Level:   LevelWarning,
				Actor:   e.Actor,
				Source:  e.Source,
				Message: unavailableTarget + ": " + err.Error() + ".",
			})
		}
	}
}

func (l *EventLog) send(channelID discord.ChannelID, chunks []string) error {
	for _, chunk := range chunks {
		if _, err := l.sender.SendMessage(channelID, "```"+chunk+"```"); err != nil {
			return err
		}
	}

	return nil
}

func filterGuild(subs []Subscription, guildID discord.GuildID) []Subscription {
	filtered := subs[:0]
	for _, sub := range subs {
		if sub.GuildID == guildID {
			filtered = append(filtered, sub)
		}
	}

	return filtered
}

// Option adds optional data to an entry.
type Option func(*Entry)

// WithError attaches err to the entry.
func WithError(err error) Option {
	return func(e *Entry) { e.Err = err }
}

// WithContent attaches the message content that triggered the event.
func WithContent(content string) Option {
	return func(e *Entry) { e.Content = content }
}

// Logger logs entries of one scope, optionally bound to a module.
type Logger struct {
	log    *EventLog
	scope  Scope
	module string
}

// Module returns a copy of the logger whose entries belong to module.
func (l *Logger) Module(module string) *Logger {
	return &Logger{log: l.log, scope: l.scope, module: module}
}

func (l *Logger) Debug(ctx context.Context, actor Actor, src Source, message string, opts ...Option) {
	l.write(ctx, LevelDebug, actor, src, message, opts)
}

func (l *Logger) Info(ctx context.Context, actor Actor, src Source, message string, opts ...Option) {
	l.write(ctx, LevelInfo, actor, src, message, opts)
}

func (l *Logger) Warning(ctx context.Context, actor Actor, src Source, message string, opts ...Option) {
	l.write(ctx, LevelWarning, actor, src, message, opts)
}

func (l *Logger) Error(ctx context.Context, actor Actor, src Source, message string, opts ...Option) {
	l.write(ctx, LevelError, actor, src, message, opts)
}

func (l *Logger) Critical(ctx context.Context, actor Actor, src Source, message string, opts ...Option) {
	l.write(ctx, LevelCritical, actor, src, message, opts)
}

func (l *Logger) write(ctx context.Context, level Level, actor Actor, src Source, message string, opts []Option) {
	e := Entry{
		Scope:   l.scope,
		Level:   level,
		Actor:   actor,
		Source:  src,
		Module:  l.module,
		Message: message,
	}
	for _, opt := range opts {
		opt(&e)
	}

	l.log.Log(ctx, e)
}
