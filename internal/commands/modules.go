package commands

import (
	"context"
	"errors"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/internal/modules"
)

// Module names of the built-in commands.
const (
	ModuleBase     = "base"
	ModuleACL      = "acl"
	ModuleLanguage = "language"
	ModuleLogging  = "logging"
	ModuleAdmin    = "admin"
)

// ModuleCommand enables and disables command modules.
type ModuleCommand struct {
	registry *modules.Registry
	events   *eventlog.Logger
}

// NewModuleCommand creates a new ModuleCommand instance.
func NewModuleCommand(registry *modules.Registry, events *eventlog.EventLog) Command {
	return &ModuleCommand{registry: registry, events: events.Bot().Module(ModuleAdmin)}
}

func (c *ModuleCommand) Name() string        { return "module" }
func (c *ModuleCommand) Description() string { return "Manage modules." }
func (c *ModuleCommand) Module() string      { return ModuleAdmin }

func (c *ModuleCommand) Routes() []Route {
	name := []discord.CommandOptionValue{stringOption("name", "Module name", true)}

	return GuildOnly([]Route{
		{Path: "list", Description: "List modules.", Level: acl.BotOwner, Handler: c.list},
		{
			Path:        "enable",
			Description: "Enable a module.",
			Options:     name,
			Level:       acl.BotOwner,
			Handler:     func(ctx context.Context, req *Request) error { return c.set(ctx, req, true) },
		},
		{
			Path:        "disable",
			Description: "Disable a module.",
			Options:     name,
			Level:       acl.BotOwner,
			Handler:     func(ctx context.Context, req *Request) error { return c.set(ctx, req, false) },
		},
	}...)
}

func (c *ModuleCommand) list(ctx context.Context, req *Request) error {
	statuses := c.registry.List()
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		enabled := req.T(ctx, "No")
		if s.Enabled {
			enabled = req.T(ctx, "Yes")
		}
		protected := ""
		if s.Protected {
			protected = req.T(ctx, "Yes")
		}
		rows = append(rows, []string{s.Name, enabled, protected})
	}

	return req.ReplyTable([]string{req.T(ctx, "Module"), req.T(ctx, "Enabled"), req.T(ctx, "Protected")}, rows)
}

func (c *ModuleCommand) set(ctx context.Context, req *Request, enabled bool) error {
	name := req.StringOption("name")

	err := c.registry.SetEnabled(ctx, name, enabled)
	switch {
	case errors.Is(err, modules.ErrUnknownModule):
		return req.Reply(req.T(ctx, "Module **{name}** does not exist.", "name", name))
	case errors.Is(err, modules.ErrProtected):
		return req.Reply(req.T(ctx, "Module **{name}** cannot be unloaded.", "name", name))
	case err != nil:
		return err
	}

	if enabled {
		c.events.Info(ctx, req.Actor, req.Source, "Enabled "+name)
		return req.Reply(req.T(ctx, "Module **{name}** has been loaded.", "name", name))
	}

	c.events.Info(ctx, req.Actor, req.Source, "Disabled "+name)

	return req.Reply(req.T(ctx, "Module **{name}** has been unloaded.", "name", name))
}
