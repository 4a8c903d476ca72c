package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/internal/i18n"
	"github.com/strawberry-py/strawberry-go/internal/settings"
)

// ConfigCommand shows and alters the global bot settings.
type ConfigCommand struct {
	settings *settings.Service
	events   *eventlog.Logger
}

// NewConfigCommand creates a new ConfigCommand instance.
func NewConfigCommand(s *settings.Service, events *eventlog.EventLog) Command {
	return &ConfigCommand{settings: s, events: events.Bot().Module(ModuleAdmin)}
}

func (c *ConfigCommand) Name() string        { return "config" }
func (c *ConfigCommand) Description() string { return "Manage core bot configuration." }
func (c *ConfigCommand) Module() string      { return ModuleAdmin }

func (c *ConfigCommand) Routes() []Route {
	return GuildOnly([]Route{
		{Path: "get", Description: "Display core bot configuration.", Level: acl.BotOwner, Handler: c.get},
		{
			Path:        "set",
			Description: "Alter core bot configuration.",
			Options: []discord.CommandOptionValue{
				stringOption("key", "Setting", true, settings.Keys()...),
				stringOption("value", "New value", true),
			},
			Level:   acl.BotOwner,
			Handler: c.set,
		},
	}...)
}

func (c *ConfigCommand) get(ctx context.Context, req *Request) error {
	current := c.settings.Get()

	embed := NewEmbed(req, req.T(ctx, "Global configuration"), "")
	embed.Fields = []discord.EmbedField{
		{Name: req.T(ctx, "Bot prefix"), Value: current.Prefix},
		{Name: req.T(ctx, "Language"), Value: current.Language, Inline: true},
		{Name: req.T(ctx, "Status"), Value: current.Status, Inline: true},
	}

	return req.ReplyEmbed(embed)
}

func (c *ConfigCommand) set(ctx context.Context, req *Request) error {
	key := req.StringOption("key")
	value := req.StringOption("value")

	_, err := c.settings.Set(ctx, key, value)
	switch {
	case errors.Is(err, settings.ErrUnknownKey):
		return req.Reply(req.T(ctx, "Key has to be one of: {keys}", "keys", joinNames(settings.Keys())))
	case errors.Is(err, settings.ErrInvalidValue) && key == settings.KeyLanguage:
		return req.Reply(req.T(ctx, "Unsupported language. Possible options are: {keys}.", "keys", joinNames(i18n.Languages())))
	case errors.Is(err, settings.ErrInvalidValue) && key == settings.KeyStatus:
		return req.Reply(req.T(ctx, "Valid status values are: {states}", "states", joinNames(settings.Statuses)))
	case errors.Is(err, settings.ErrInvalidValue):
		return req.Reply(req.T(ctx, "Invalid value."))
	case err != nil:
		return err
	}

	c.events.Info(ctx, req.Actor, req.Source, fmt.Sprintf("Updating config: %s=%s.", key, value))

	return c.get(ctx, req)
}
