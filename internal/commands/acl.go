package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/pkg/text"
)

// ACLCommand manages role mappings, command defaults and overwrites.
type ACLCommand struct {
	acl     *acl.Service
	catalog *Catalog
	dir     Directory
	events  *eventlog.Logger
}

// NewACLCommand creates a new ACLCommand instance.
func NewACLCommand(access *acl.Service, catalog *Catalog, dir Directory, events *eventlog.EventLog) Command {
	return &ACLCommand{
		acl:     access,
		catalog: catalog,
		dir:     dir,
		events:  events.Guild().Module(ModuleACL),
	}
}

func (c *ACLCommand) Name() string        { return "acl" }
func (c *ACLCommand) Description() string { return "Manage access to commands." }
func (c *ACLCommand) Module() string      { return ModuleACL }

func (c *ACLCommand) Routes() []Route {
	levels := acl.LevelNames()
	command := stringOption("command", "Qualified command name, e.g. \"acl mapping add\"", true)

	routes := []Route{
		{Path: "mapping list", Description: "List role mappings.", Level: acl.Submod, Handler: c.mappingList},
		{
			Path:        "mapping add",
			Description: "Map a role to a level.",
			Options: []discord.CommandOptionValue{
				roleOption("role", "Mapped role"),
				stringOption("level", "Level", true, levels...),
			},
			Level:   acl.GuildOwner,
			Handler: c.mappingAdd,
		},
		{
			Path:        "mapping remove",
			Description: "Remove a role mapping.",
			Options:     []discord.CommandOptionValue{roleOption("role", "Mapped role")},
			Level:       acl.GuildOwner,
			Handler:     c.mappingRemove,
		},
		{Path: "default list", Description: "List custom command levels.", Level: acl.Submod, Handler: c.defaultList},
		{Path: "default audit", Description: "List levels of every command.", Level: acl.GuildOwner, Handler: c.defaultAudit},
		{
			Path:        "default add",
			Description: "Set a custom command level.",
			Options: []discord.CommandOptionValue{
				command,
				stringOption("level", "Level", true, levels...),
			},
			Level:   acl.GuildOwner,
			Handler: c.defaultAdd,
		},
		{
			Path:        "default remove",
			Description: "Remove a custom command level.",
			Options:     []discord.CommandOptionValue{command},
			Level:       acl.GuildOwner,
			Handler:     c.defaultRemove,
		},
	}

	targets := []struct {
		kind   acl.OverwriteKind
		option func() discord.CommandOptionValue
	}{
		{acl.RoleOverwrite, func() discord.CommandOptionValue { return roleOption("role", "Target role") }},
		{acl.UserOverwrite, func() discord.CommandOptionValue { return userOption("user", "Target user") }},
		{acl.ChannelOverwrite, func() discord.CommandOptionValue { return channelOption("channel", "Target channel") }},
	}
	for _, t := range targets {
		kind := t.kind
		group := string(kind) + "-overwrite"
		routes = append(routes,
			Route{
				Path:        group + " list",
				Description: "List " + string(kind) + " overwrites.",
				Level:       acl.Submod,
				Handler:     func(ctx context.Context, req *Request) error { return c.overwriteList(ctx, req, kind) },
			},
			Route{
				Path:        group + " add",
				Description: "Allow or deny a command to a " + string(kind) + ".",
				Options: []discord.CommandOptionValue{
					command,
					t.option(),
					boolOption("allow", "Allow the command"),
				},
				Level:   acl.GuildOwner,
				Handler: func(ctx context.Context, req *Request) error { return c.overwriteAdd(ctx, req, kind) },
			},
			Route{
				Path:        group + " remove",
				Description: "Remove a " + string(kind) + " overwrite.",
				Options:     []discord.CommandOptionValue{command, t.option()},
				Level:       acl.GuildOwner,
				Handler:     func(ctx context.Context, req *Request) error { return c.overwriteRemove(ctx, req, kind) },
			},
		)
	}

	return GuildOnly(routes...)
}

func (c *ACLCommand) mappingList(ctx context.Context, req *Request) error {
	mappings, err := c.acl.Mappings(ctx, req.Invoker.GuildID)
	if err != nil {
		return err
	}
	if len(mappings) == 0 {
		return req.Reply(req.T(ctx, "No mappings have been set."))
	}

	rows := make([][]string, 0, len(mappings))
	for _, m := range mappings {
		rows = append(rows, []string{roleName(c.dir, m.GuildID, m.RoleID), m.Level.String()})
	}

	return req.ReplyTable([]string{req.T(ctx, "Role"), req.T(ctx, "Level")}, rows)
}

func (c *ACLCommand) mappingAdd(ctx context.Context, req *Request) error {
	level, ok, err := c.levelOption(ctx, req)
	if !ok {
		return err
	}
	roleID := discord.RoleID(req.SnowflakeOption("role"))
	role := roleName(c.dir, req.Invoker.GuildID, roleID)

	err = c.acl.AddMapping(ctx, req.Invoker, roleID, level)
	var tooHigh *acl.LevelTooHighError
	switch {
	case errors.Is(err, acl.ErrOwnerLevel):
		return req.Reply(req.T(ctx, "You can't assign OWNER levels."))
	case errors.As(err, &tooHigh):
		return req.Reply(req.T(ctx, "Your ACLevel has to be higher than **{level}**.", "level", tooHigh.Level.String()))
	case errors.Is(err, acl.ErrExists):
		return req.Reply(req.T(ctx, "That role is already mapped to some level."))
	case err != nil:
		return err
	}

	c.events.Info(ctx, req.Actor, req.Source, fmt.Sprintf("Role mapping for '%s' set to %s.", role, level))

	return req.Reply(req.T(ctx, "Role **{role}** will be mapped to **{level}**.", "role", text.Sanitise(role), "level", level.String()))
}

func (c *ACLCommand) mappingRemove(ctx context.Context, req *Request) error {
	roleID := discord.RoleID(req.SnowflakeOption("role"))
	role := roleName(c.dir, req.Invoker.GuildID, roleID)

	err := c.acl.RemoveMapping(ctx, req.Invoker, roleID)
	var tooHigh *acl.LevelTooHighError
	switch {
	case errors.Is(err, acl.ErrNotFound):
		return req.Reply(req.T(ctx, "That role is not mapped to any level."))
	case errors.As(err, &tooHigh):
		return req.Reply(req.T(ctx, "Your ACLevel has to be higher than **{level}**.", "level", tooHigh.Level.String()))
	case err != nil:
		return err
	}

	c.events.Info(ctx, req.Actor, req.Source, fmt.Sprintf("Role mapping for '%s' removed.", role))

	return req.Reply(req.T(ctx, "Role mapping was sucessfully removed."))
}

func (c *ACLCommand) defaultList(ctx context.Context, req *Request) error {
	defaults, err := c.acl.Defaults(ctx, req.Invoker.GuildID)
	if err != nil {
		return err
	}
	if len(defaults) == 0 {
		return req.Reply(req.T(ctx, "No defaults have been set."))
	}

	rows := make([][]string, 0, len(defaults))
	for _, d := range defaults {
		builtin := "?"
		if r, ok := c.catalog.Route(d.Command); ok {
			builtin = r.Level.String()
		}
		rows = append(rows, []string{d.Command, builtin, d.Level.String()})
	}

	return req.ReplyTable([]string{req.T(ctx, "Command"), req.T(ctx, "Default level"), req.T(ctx, "Custom level")}, rows)
}

func (c *ACLCommand) defaultAudit(ctx context.Context, req *Request) error {
	defaults, err := c.acl.Defaults(ctx, req.Invoker.GuildID)
	if err != nil {
		return err
	}
	custom := make(map[string]acl.Level, len(defaults))
	for _, d := range defaults {
		custom[d.Command] = d.Level
	}

	var rows [][]string
	for _, cmd := range c.catalog.Commands() {
		for _, r := range cmd.Routes() {
			name := QualifiedName(cmd.Name(), r.Path)
			row := []string{name, r.Level.String(), ""}
			if level, ok := custom[name]; ok {
				row[2] = level.String()
			}
			rows = append(rows, row)
		}
	}

	return req.ReplyTable([]string{req.T(ctx, "Command"), req.T(ctx, "Default level"), req.T(ctx, "Custom level")}, rows)
}

func (c *ACLCommand) defaultAdd(ctx context.Context, req *Request) error {
	command := req.StringOption("command")
	route, ok := c.catalog.Route(command)
	if !ok {
		return req.Reply(req.T(ctx, "I don't know this command."))
	}
	level, ok, err := c.levelOption(ctx, req)
	if !ok {
		return err
	}

	err = c.acl.AddDefault(ctx, req.Invoker, command, route.Level, level)
	if handled, err := c.manageError(ctx, req, err); handled {
		return err
	}
	if errors.Is(err, acl.ErrExists) {
		return req.Reply(req.T(ctx, "Custom default for **{command}** already exists.", "command", command))
	}
	if err != nil {
		return err
	}

	c.events.Info(ctx, req.Actor, req.Source, fmt.Sprintf("Default level of '%s' set to %s.", command, level))

	return req.Reply(req.T(ctx, "Custom default for **{command}** set.", "command", command))
}

func (c *ACLCommand) defaultRemove(ctx context.Context, req *Request) error {
	command := req.StringOption("command")
	route, ok := c.catalog.Route(command)
	if !ok {
		return req.Reply(req.T(ctx, "I don't know this command."))
	}

	err := c.acl.RemoveDefault(ctx, req.Invoker, command, route.Level)
	if handled, err := c.manageError(ctx, req, err); handled {
		return err
	}
	if errors.Is(err, acl.ErrNotFound) {
		return req.Reply(req.T(ctx, "Command **{command}** does not have custom default.", "command", command))
	}
	if err != nil {
		return err
	}

	c.events.Info(ctx, req.Actor, req.Source, fmt.Sprintf("Default level of '%s' removed.", command))

	return req.Reply(req.T(ctx, "Custom default for **{command}** removed.", "command", command))
}

func (c *ACLCommand) overwriteList(ctx context.Context, req *Request, kind acl.OverwriteKind) error {
	overwrites, err := c.acl.Overwrites(ctx, req.Invoker.GuildID, kind)
	if err != nil {
		return err
	}
	if len(overwrites) == 0 {
		return req.Reply(req.T(ctx, "No ACL overwrites have been set."))
	}

	rows := make([][]string, 0, len(overwrites))
	for _, o := range overwrites {
		allow := req.T(ctx, "no")
		if o.Allow {
			allow = req.T(ctx, "yes")
		}
		rows = append(rows, []string{o.Command, c.targetName(req.Invoker.GuildID, kind, o.TargetID), allow})
	}

	return req.ReplyTable([]string{req.T(ctx, "Command"), req.T(ctx, "Value"), req.T(ctx, "Allow")}, rows)
}

func (c *ACLCommand) overwriteAdd(ctx context.Context, req *Request, kind acl.OverwriteKind) error {
	command := req.StringOption("command")
	route, ok := c.catalog.Route(command)
	if !ok {
		return req.Reply(req.T(ctx, "I don't know this command."))
	}
	targetID := req.SnowflakeOption(string(kind))
	allow, _ := req.BoolOption("allow")
	target := c.targetName(req.Invoker.GuildID, kind, targetID)

	err := c.acl.AddOverwrite(ctx, req.Invoker, acl.Overwrite{
		Kind:     kind,
		TargetID: targetID,
		Command:  command,
		Allow:    allow,
	}, route.Level)
	if handled, err := c.manageError(ctx, req, err); handled {
		return err
	}
	if errors.Is(err, acl.ErrExists) {
		return req.Reply(req.T(ctx, "Overwrite for command **{command}** and **{target}** already exists.",
			"command", command, "target", text.Sanitise(target)))
	}
	if err != nil {
		return err
	}

	verdict := "deny"
	if allow {
		verdict = "allow"
	}
	c.events.Info(ctx, req.Actor, req.Source,
		fmt.Sprintf("%s overwrite created for command '%s' and '%s': %s.", kind, command, target, verdict))

	return req.Reply(req.T(ctx, "Overwrite for command **{command}** and **{target}** sucessfully created.",
		"command", command, "target", text.Sanitise(target)))
}

func (c *ACLCommand) overwriteRemove(ctx context.Context, req *Request, kind acl.OverwriteKind) error {
	command := req.StringOption("command")
	route, ok := c.catalog.Route(command)
	if !ok {
		return req.Reply(req.T(ctx, "I don't know this command."))
	}
	targetID := req.SnowflakeOption(string(kind))
	target := c.targetName(req.Invoker.GuildID, kind, targetID)

	err := c.acl.RemoveOverwrite(ctx, req.Invoker, kind, targetID, command, route.Level)
	if handled, err := c.manageError(ctx, req, err); handled {
		return err
	}
	if errors.Is(err, acl.ErrNotFound) {
		return req.Reply(req.T(ctx, "Overwrite for this command and target does not exist."))
	}
	if err != nil {
		return err
	}

	c.events.Info(ctx, req.Actor, req.Source,
		fmt.Sprintf("%s overwrite removed for command '%s' and '%s'.", kind, command, target))

	return req.Reply(req.T(ctx, "Overwrite for command **{command}** and **{target}** removed.",
		"command", command, "target", text.Sanitise(target)))
}

// manageError answers the errors shared by default and overwrite management.
func (c *ACLCommand) manageError(ctx context.Context, req *Request, err error) (bool, error) {
	var tooHigh *acl.LevelTooHighError
	switch {
	case errors.As(err, &tooHigh):
		return true, req.Reply(req.T(ctx, "Command's ACLevel is higher than your current ACLevel."))
	case errors.Is(err, acl.ErrAccessDenied):
		return true, req.Reply(req.T(ctx, "You don't have permission to run this command, you can't alter its permissions."))
	}

	return false, nil
}

func (c *ACLCommand) levelOption(ctx context.Context, req *Request) (acl.Level, bool, error) {
	level, err := acl.ParseLevel(req.StringOption("level"))
	if err != nil {
		return 0, false, req.Reply(req.T(ctx, "Invalid level. Possible options are: {keys}.",
			"keys", joinNames(acl.LevelNames())))
	}

	return level, true, nil
}

func (c *ACLCommand) targetName(guildID discord.GuildID, kind acl.OverwriteKind, id discord.Snowflake) string {
	switch kind {
	case acl.RoleOverwrite:
		return roleName(c.dir, guildID, discord.RoleID(id))
	case acl.ChannelOverwrite:
		return channelName(c.dir, discord.ChannelID(id))
	}

	return strconv.FormatUint(uint64(id), 10)
}
