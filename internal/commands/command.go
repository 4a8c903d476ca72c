package commands

import (
	"context"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/spamchannel"
)

// Command defines the interface for slash commands.
type Command interface {
	Name() string
	Description() string
	// Module is the name of the module the command belongs to. Commands of
	// disabled modules are refused.
	Module() string
	// Routes returns the invocable leaves of the command. A command without
	// sub-commands has a single Route with an empty Path.
	Routes() []Route
}

// Handler runs a resolved command.
type Handler func(ctx context.Context, req *Request) error

// Route is one invocable leaf of a command.
type Route struct {
	// Path is "" for the command itself, "add" for a sub-command and
	// "mapping add" for a sub-command inside a group.
	Path        string
	Description string
	Options     []discord.CommandOptionValue
	Level       acl.Level
	Spam        spamchannel.Mode
	// GuildOnly routes are refused in direct messages.
	GuildOnly bool
	Handler   Handler
}

// AvailableIn reports whether the route may run in guildID. Direct
// messages have no guild.
func (r Route) AvailableIn(guildID discord.GuildID) bool {
	return !r.GuildOnly || guildID.IsValid()
}

// GuildOnly marks every route as unavailable in direct messages.
func GuildOnly(routes ...Route) []Route {
	for i := range routes {
		routes[i].GuildOnly = true
	}

	return routes
}

// QualifiedName joins a command name and a route path. ACL defaults and
// overwrites are keyed by it.
func QualifiedName(name, path string) string {
	if path == "" {
		return name
	}

	return name + " " + path
}

// BuildOptions converts routes into the option tree of a command.
func BuildOptions(routes []Route) discord.CommandOptions {
	if len(routes) == 1 && routes[0].Path == "" {
		opts := make(discord.CommandOptions, 0, len(routes[0].Options))
		for _, o := range routes[0].Options {
			opts = append(opts, o)
		}

		return opts
	}

	var opts discord.CommandOptions
	groups := make(map[string]*discord.SubcommandGroupOption)

	for _, r := range routes {
		parts := strings.Fields(r.Path)
		switch len(parts) {
		case 1:
			opts = append(opts, &discord.SubcommandOption{
				OptionName:  parts[0],
				Description: r.Description,
				Options:     r.Options,
			})
		case 2:
			group, ok := groups[parts[0]]
			if !ok {
				group = &discord.SubcommandGroupOption{
					OptionName:  parts[0],
					Description: parts[0],
				}
				groups[parts[0]] = group
				opts = append(opts, group)
			}
			group.Subcommands = append(group.Subcommands, &discord.SubcommandOption{
				OptionName:  parts[1],
				Description: r.Description,
				Options:     r.Options,
			})
		}
	}

	return opts
}

// Resolve walks the sub-command options of an interaction and returns the
// route path and the options of the leaf.
func Resolve(opts discord.CommandInteractionOptions) (string, discord.CommandInteractionOptions) {
	var parts []string
	for len(opts) == 1 {
		o := opts[0]
		if o.Type != discord.SubcommandGroupOptionType && o.Type != discord.SubcommandOptionType {
			break
		}
		parts = append(parts, o.Name)
		opts = o.Options
	}

	return strings.Join(parts, " "), opts
}

// FindRoute returns the route of cmd matching path.
func FindRoute(cmd Command, path string) (Route, bool) {
	for _, r := range cmd.Routes() {
		if r.Path == path {
			return r, true
		}
	}

	return Route{}, false
}
