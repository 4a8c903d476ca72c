package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Registrar uploads command definitions. It is satisfied by *api.Client.
type Registrar interface {
	BulkOverwriteCommands(appID discord.AppID, cmds []api.CreateCommandData) ([]discord.Command, error)
	BulkOverwriteGuildCommands(appID discord.AppID, guildID discord.GuildID, cmds []api.CreateCommandData) ([]discord.Command, error)
}

// CommandManager holds the loaded commands and registers them with Discord.
type CommandManager struct {
	applicationID discord.AppID
	logger        *zap.Logger
	commands      map[string]Command
	order         []string

	routesOnce sync.Once
	routes     map[string]Route
}

// CommandManagerParams holds dependencies for NewCommandManager.
type CommandManagerParams struct {
	fx.In

	ApplicationID discord.AppID
	Logger        *zap.Logger
	Commands      []Command `group:"commands"`
	Catalog       *Catalog  `optional:"true"`
}

// NewCommandManager creates a new CommandManager. When two commands share a
// name the first one wins.
func NewCommandManager(params CommandManagerParams) *CommandManager {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cm := &CommandManager{
		applicationID: params.ApplicationID,
		logger:        logger.Named("commands"),
		commands:      make(map[string]Command, len(params.Commands)),
	}

	for _, cmd := range params.Commands {
		if cmd == nil {
			cm.logger.Warn("Skipping nil command")
			continue
		}

		name := cmd.Name()
		if _, ok := cm.commands[name]; ok {
			cm.logger.Warn("Duplicate command name, keeping the first one", zap.String("command", name))
			continue
		}
		cm.commands[name] = cmd
		cm.order = append(cm.order, name)
	}

	if params.Catalog != nil {
		params.Catalog.bind(cm)
	}

	cm.logger.Debug("Commands loaded", zap.Int("count", len(cm.order)))

	return cm
}

// GetCommand retrieves a loaded command by its name.
func (cm *CommandManager) GetCommand(name string) (Command, bool) {
	cmd, ok := cm.commands[name]
	return cmd, ok
}

// Commands returns the loaded commands sorted by name.
func (cm *CommandManager) Commands() []Command {
	names := append([]string(nil), cm.order...)
	sort.Strings(names)

	cmds := make([]Command, 0, len(names))
	for _, name := range names {
		cmds = append(cmds, cm.commands[name])
	}

	return cmds
}

// Modules returns the distinct module names of the loaded commands.
func (cm *CommandManager) Modules() []string {
	seen := make(map[string]struct{})
	var modules []string
	for _, cmd := range cm.Commands() {
		m := cmd.Module()
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		modules = append(modules, m)
	}
	sort.Strings(modules)

	return modules
}

// Route returns the route registered under a qualified name.
func (cm *CommandManager) Route(qualified string) (Route, bool) {
	cm.routesOnce.Do(func() {
		cm.routes = make(map[string]Route)
		for _, name := range cm.order {
			for _, r := range cm.commands[name].Routes() {
				cm.routes[QualifiedName(name, r.Path)] = r
			}
		}
	})

	r, ok := cm.routes[qualified]

	return r, ok
}

// Resolve finds the command and route an interaction refers to.
func (cm *CommandManager) Resolve(data *discord.CommandInteraction) (Command, Route, discord.CommandInteractionOptions, bool) {
	cmd, ok := cm.GetCommand(data.Name)
	if !ok {
		return nil, Route{}, nil, false
	}

	path, opts := Resolve(data.Options)
	route, ok := FindRoute(cmd, path)
	if !ok {
		return nil, Route{}, nil, false
	}

	return cmd, route, opts, true
}

// Definitions returns the data uploaded to Discord.
func (cm *CommandManager) Definitions() []api.CreateCommandData {
	cmds := make([]api.CreateCommandData, 0, len(cm.order))
	for _, cmd := range cm.Commands() {
		routes := cmd.Routes()
		cmds = append(cmds, api.CreateCommandData{
			Name:           cmd.Name(),
			Description:    cmd.Description(),
			Options:        BuildOptions(routes),
			NoDMPermission: guildOnly(routes),
		})
	}

	return cmds
}

// guildOnly reports whether none of the routes may run in direct messages.
func guildOnly(routes []Route) bool {
	for _, r := range routes {
		if !r.GuildOnly {
			return false
		}
	}

	return len(routes) > 0
}

// RegisterCommands uploads the commands to every guild in parallel, or
// globally when guildIDs is empty.
func (cm *CommandManager) RegisterCommands(ctx context.Context, r Registrar, guildIDs []discord.GuildID) error {
	cmds := cm.Definitions()

	if len(guildIDs) == 0 {
		registered, err := r.BulkOverwriteCommands(cm.applicationID, cmds)
		if err != nil {
			return fmt.Errorf("failed to register global commands: %w", err)
		}
		cm.logger.Info("Registered global slash commands", zap.Int("count", len(registered)))

		return nil
	}

	var g errgroup.Group
	for _, guildID := range guildIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			registered, err := r.BulkOverwriteGuildCommands(cm.applicationID, guildID, cmds)
			if err != nil {
				return fmt.Errorf("failed to register commands for guild %s: %w", guildID, err)
			}
			cm.logger.Info("Registered slash commands for guild",
				zap.Int("count", len(registered)),
				zap.Stringer("guildID", guildID),
			)

			return nil
		})
	}

	return g.Wait()
}
