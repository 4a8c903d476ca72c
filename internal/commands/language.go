package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/internal/i18n"
)

// LanguageCommand manages language preferences.
type LanguageCommand struct {
	translator *i18n.Translator
	global     i18n.GlobalLanguage
	events     *eventlog.Logger
}

// NewLanguageCommand creates a new LanguageCommand instance.
func NewLanguageCommand(translator *i18n.Translator, global i18n.GlobalLanguage, events *eventlog.EventLog) Command {
	return &LanguageCommand{
		translator: translator,
		global:     global,
		events:     events.Guild().Module(ModuleLanguage),
	}
}

func (c *LanguageCommand) Name() string        { return "language" }
func (c *LanguageCommand) Description() string { return "Manage language preferences." }
func (c *LanguageCommand) Module() string      { return ModuleLanguage }

func (c *LanguageCommand) Routes() []Route {
	language := func() discord.CommandOptionValue {
		return stringOption("language", "Language code", true, i18n.Languages()...)
	}

	return GuildOnly([]Route{
		{Path: "get", Description: "Show language preferences.", Level: acl.Member, Handler: c.get},
		{
			Path:        "set",
			Description: "Set your language.",
			Options:     []discord.CommandOptionValue{language()},
			Level:       acl.Member,
			Handler:     c.set,
		},
		{Path: "unset", Description: "Remove your language preference.", Level: acl.Member, Handler: c.unset},
		{
			Path:        "server set",
			Description: "Set the language of this server.",
			Options:     []discord.CommandOptionValue{language()},
			Level:       acl.Mod,
			Handler:     c.guildSet,
		},
		{Path: "server unset", Description: "Remove the language of this server.", Level: acl.Mod, Handler: c.guildUnset},
		{Path: "audit", Description: "Show translation coverage.", Level: acl.Mod, Handler: c.audit},
	}...)
}

func (c *LanguageCommand) get(ctx context.Context, req *Request) error {
	notSet := req.T(ctx, "Not set")

	user, err := c.translator.MemberPreference(ctx, req.Invoker.GuildID, req.Invoker.UserID)
	if err != nil {
		return err
	}
	guild, err := c.translator.GuildPreference(ctx, req.Invoker.GuildID)
	if err != nil {
		return err
	}

	embed := NewEmbed(req,
		req.T(ctx, "Localization"),
		req.T(ctx, "Available languages:")+"\n> "+strings.Join(i18n.Languages(), ", "),
	)
	embed.Fields = []discord.EmbedField{
		{Name: req.T(ctx, "User settings"), Value: orDefault(user, notSet), Inline: true},
		{Name: req.T(ctx, "Server settings"), Value: orDefault(guild, notSet), Inline: true},
		{Name: req.T(ctx, "Global settings"), Value: c.global.Language(), Inline: true},
	}

	return req.ReplyEmbed(embed)
}

func (c *LanguageCommand) set(ctx context.Context, req *Request) error {
	lang := req.StringOption("language")

	err := c.translator.SetMemberPreference(ctx, req.Invoker.GuildID, req.Invoker.UserID, lang)
	if errors.Is(err, i18n.ErrUnknownLanguage) {
		return req.Reply(req.T(ctx, "I can't speak that language."))
	}
	if err != nil {
		return err
	}

	return req.Reply(req.T(ctx, "I'll remember the preference of **{language}**.", "language", lang))
}

func (c *LanguageCommand) unset(ctx context.Context, req *Request) error {
	removed, err := c.translator.UnsetMemberPreference(ctx, req.Invoker.GuildID, req.Invoker.UserID)
	if err != nil {
		return err
	}
	if !removed {
		return req.Reply(req.T(ctx, "You don't have any language preference."))
	}

	return req.Reply(req.T(ctx, "I'll be using the server settings from now on."))
}

func (c *LanguageCommand) guildSet(ctx context.Context, req *Request) error {
	lang := req.StringOption("language")

	err := c.translator.SetGuildPreference(ctx, req.Invoker.GuildID, lang)
	if errors.Is(err, i18n.ErrUnknownLanguage) {
		return req.Reply(req.T(ctx, "I can't speak that language."))
	}
	if err != nil {
		return err
	}

	c.events.Warning(ctx, req.Actor, req.Source, fmt.Sprintf("Server language preference set to %s.", lang))

	return req.Reply(req.T(ctx, "I'll be using **{language}** on this server now.", "language", lang))
}

func (c *LanguageCommand) guildUnset(ctx context.Context, req *Request) error {
	removed, err := c.translator.UnsetGuildPreference(ctx, req.Invoker.GuildID)
	if err != nil {
		return err
	}
	if !removed {
		return req.Reply(req.T(ctx, "This server doesn't have any language preference."))
	}

	c.events.Info(ctx, req.Actor, req.Source, "Server language preference unset.")

	return req.Reply(req.T(ctx, "I'll be using the global settings from now on."))
}

func (c *LanguageCommand) audit(ctx context.Context, req *Request) error {
	stats := c.translator.Audit()
	langs := make([]string, 0, len(stats))
	for lang := range stats {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	embed := NewEmbed(req, req.T(ctx, "Localization statistics"), req.T(ctx, "You can improve them by opening a PR!"))
	for _, lang := range langs {
		s := stats[lang]
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:   lang,
			Value:  fmt.Sprintf("%d/%d", s.MsgStrs, s.MsgIDs),
			Inline: true,
		})
	}

	return req.ReplyEmbed(embed)
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}

	return value
}
