package commands

import (
	"context"
	"errors"
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"
)

// ErrNotLoaded is returned by a Catalog whose CommandManager does not exist
// yet.
var ErrNotLoaded = errors.New("commands are not loaded")

// Catalog gives commands read access to the CommandManager that loads them.
type Catalog struct {
	registrar Registrar
	guildIDs  []discord.GuildID

	mu sync.RWMutex
	cm *CommandManager
}

// NewCatalog creates a Catalog. Sync uploads the commands through r.
func NewCatalog(r Registrar, guildIDs []discord.GuildID) *Catalog {
	return &Catalog{registrar: r, guildIDs: guildIDs}
}

func (c *Catalog) bind(cm *CommandManager) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cm = cm
}

func (c *Catalog) manager() *CommandManager {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.cm
}

// Commands returns the loaded commands sorted by name.
func (c *Catalog) Commands() []Command {
	if cm := c.manager(); cm != nil {
		return cm.Commands()
	}

	return nil
}

// Route returns the route registered under a qualified command name.
func (c *Catalog) Route(qualified string) (Route, bool) {
	if cm := c.manager(); cm != nil {
		return cm.Route(qualified)
	}

	return Route{}, false
}

// Sync uploads the command definitions to Discord again.
func (c *Catalog) Sync(ctx context.Context) error {
	cm := c.manager()
	if cm == nil {
		return ErrNotLoaded
	}

	return cm.RegisterCommands(ctx, c.registrar, c.guildIDs)
}
