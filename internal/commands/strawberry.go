package commands

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/fx"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/backup"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/pkg/timeutil"
)

// Exit codes reported to the host system. A supervisor restarts the bot
// when it exits with ExitRestart.
const (
	ExitShutdown = 0
	ExitRestart  = 1
)

// StrawberryCommand manages the bot instance.
type StrawberryCommand struct {
	catalog    *Catalog
	backup     *backup.Service
	shutdowner fx.Shutdowner
	events     *eventlog.Logger
}

// NewStrawberryCommand creates a new StrawberryCommand instance.
func NewStrawberryCommand(catalog *Catalog, b *backup.Service, shutdowner fx.Shutdowner, events *eventlog.EventLog) Command {
	return &StrawberryCommand{
		catalog:    catalog,
		backup:     b,
		shutdowner: shutdowner,
		events:     events.Bot().Module(ModuleAdmin),
	}
}

func (c *StrawberryCommand) Name() string        { return "strawberry" }
func (c *StrawberryCommand) Description() string { return "Manage bot instance." }
func (c *StrawberryCommand) Module() string      { return ModuleAdmin }

func (c *StrawberryCommand) Routes() []Route {
	return GuildOnly([]Route{
		{Path: "sync", Description: "Sync slash commands.", Level: acl.BotOwner, Handler: c.sync},
		{Path: "restart", Description: "Restart bot instance with the help of host system.", Level: acl.BotOwner, Handler: c.restart},
		{Path: "shutdown", Description: "Shutdown bot instance.", Level: acl.BotOwner, Handler: c.shutdown},
		{Path: "backup", Description: "Create a database backup.", Level: acl.BotOwner, Handler: c.dump},
	}...)
}

func (c *StrawberryCommand) sync(ctx context.Context, req *Request) error {
	if err := req.Defer(); err != nil {
		return err
	}
	if err := c.catalog.Sync(ctx); err != nil {
		return err
	}

	return req.Reply(req.T(ctx, "Sync complete."))
}

func (c *StrawberryCommand) restart(ctx context.Context, req *Request) error {
	c.events.Critical(ctx, req.Actor, req.Source, "Initiated restart.")
	if err := req.Reply(req.T(ctx, "Restarting.")); err != nil {
		return err
	}

	return c.shutdowner.Shutdown(fx.ExitCode(ExitRestart))
}

func (c *StrawberryCommand) shutdown(ctx context.Context, req *Request) error {
	c.events.Critical(ctx, req.Actor, req.Source, "Initiated shutdown.")
	if err := req.Reply(req.T(ctx, "Shutting down.")); err != nil {
		return err
	}

	return c.shutdowner.Shutdown(fx.ExitCode(ExitShutdown))
}

func (c *StrawberryCommand) dump(ctx context.Context, req *Request) error {
	if err := req.Defer(); err != nil {
		return err
	}

	res, err := c.backup.Run(ctx)
	if errors.Is(err, backup.ErrRunning) {
		return req.Reply(req.T(ctx, "A backup is already running."))
	}
	if err != nil {
		return err
	}

	return req.Reply(req.T(ctx, "Backup **{name}** created in {took}.",
		"name", filepath.Base(res.Path),
		"took", timeutil.Humanize(res.Took)))
}
