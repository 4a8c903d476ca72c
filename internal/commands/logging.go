package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
)

// LoggingCommand manages the channels event log entries are sent to.
type LoggingCommand struct {
	store  eventlog.Store
	acl    *acl.Service
	dir    Directory
	events *eventlog.Logger
}

// NewLoggingCommand creates a new LoggingCommand instance.
func NewLoggingCommand(store eventlog.Store, access *acl.Service, dir Directory, events *eventlog.EventLog) Command {
	return &LoggingCommand{
		store:  store,
		acl:    access,
		dir:    dir,
		events: events.Guild().Module(ModuleLogging),
	}
}

func (c *LoggingCommand) Name() string        { return "logging" }
func (c *LoggingCommand) Description() string { return "Manage logging channels." }
func (c *LoggingCommand) Module() string      { return ModuleLogging }

func (c *LoggingCommand) Routes() []Route {
	scope := stringOption("scope", "Log scope", true, "bot", "guild")
	module := stringOption("module", "Only log events of this module", false)

	return GuildOnly([]Route{
		{Path: "list", Description: "List logging channels on this server.", Level: acl.Mod, Handler: c.list},
		{
			Path:        "set",
			Description: "Use this channel as logging channel.",
			Options: []discord.CommandOptionValue{
				scope,
				stringOption("level", "Minimal level", true, eventlog.LevelNames()...),
				module,
			},
			Level:   acl.GuildOwner,
			Handler: c.set,
		},
		{
			Path:        "unset",
			Description: "Stop logging into this server.",
			Options:     []discord.CommandOptionValue{scope, module},
			Level:       acl.GuildOwner,
			Handler:     c.unset,
		},
	}...)
}

func (c *LoggingCommand) list(ctx context.Context, req *Request) error {
	subs, err := c.store.GuildSubscriptions(ctx, req.Invoker.GuildID)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return req.Reply(req.T(ctx, "Logging is not enabled on this server."))
	}

	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].Scope != subs[j].Scope {
			return subs[i].Scope < subs[j].Scope
		}
		if subs[i].Level != subs[j].Level {
			return subs[i].Level < subs[j].Level
		}

		return subs[i].ChannelID < subs[j].ChannelID
	})

	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []string{s.Level.String(), s.Scope.String(), channelName(c.dir, s.ChannelID), s.Module})
	}

	return req.ReplyTable([]string{
		req.T(ctx, "Log level"),
		req.T(ctx, "Scope"),
		req.T(ctx, "Log channel"),
		req.T(ctx, "Module"),
	}, rows)
}

func (c *LoggingCommand) set(ctx context.Context, req *Request) error {
	scope, ok, err := c.scopeOption(ctx, req)
	if !ok {
		return err
	}
	level, err := eventlog.ParseLevel(req.StringOption("level"))
	if err != nil {
		return req.Reply(req.T(ctx, "Invalid level."))
	}
	module := req.StringOption("module")

	err = c.store.AddSubscription(ctx, eventlog.Subscription{
		Scope:     scope,
		GuildID:   req.Invoker.GuildID,
		ChannelID: req.Invoker.ChannelID,
		Level:     level,
		Module:    module,
	})
	if err != nil {
		return err
	}

	message := fmt.Sprintf("%s log level set to %s", scopeTitle(scope), level)
	if module != "" {
		message += " for module " + module
	}
	c.events.Info(ctx, req.Actor, req.Source, message+".")

	return req.Reply(req.T(ctx, "Logging settings succesfully updated."))
}

func (c *LoggingCommand) unset(ctx context.Context, req *Request) error {
	scope, ok, err := c.scopeOption(ctx, req)
	if !ok {
		return err
	}
	module := req.StringOption("module")

	removed, err := c.store.RemoveSubscription(ctx, scope, req.Invoker.GuildID, module)
	if err != nil {
		return err
	}
	if !removed {
		return req.Reply(req.T(ctx, "Supplied arguments didn't match any entries."))
	}

	message := scopeTitle(scope) + " logging disabled"
	if module != "" {
		message += " for module " + module
	}
	c.events.Info(ctx, req.Actor, req.Source, message+".")

	return req.Reply(req.T(ctx, "Logging target unset."))
}

// scopeOption parses the scope. Only bot owners may subscribe to the bot
// scope.
func (c *LoggingCommand) scopeOption(ctx context.Context, req *Request) (eventlog.Scope, bool, error) {
	scope, err := eventlog.ParseScope(req.StringOption("scope"))
	if err != nil {
		return 0, false, req.Reply(req.T(ctx, "Invalid scope."))
	}
	if scope != eventlog.ScopeBot {
		return scope, true, nil
	}

	level, err := c.acl.MemberLevel(ctx, req.Invoker)
	if err != nil {
		return 0, false, err
	}
	if level < acl.BotOwner {
		return 0, false, &acl.InsufficientLevelError{Required: acl.BotOwner, Actual: level}
	}

	return scope, true, nil
}

func scopeTitle(s eventlog.Scope) string {
	if s == eventlog.ScopeGuild {
		return "Guild"
	}

	return "Bot"
}
