package commands

import (
	"context"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/spamchannel"
	"github.com/strawberry-py/strawberry-go/pkg/timeutil"
)

// AppVersion is the version of the application, should be set during build time.
var AppVersion = "dev"

// VersionCommand is a command that responds with the application version
// and uptime.
type VersionCommand struct {
	started time.Time
	loc     *time.Location
	now     func() time.Time
}

// NewVersionCommand creates a new VersionCommand instance. Uptime is counted
// from the moment it is called.
func NewVersionCommand(loc *time.Location) Command {
	return &VersionCommand{started: time.Now(), loc: loc, now: time.Now}
}

// Name returns the name of the command.
func (c *VersionCommand) Name() string {
	return "version"
}

// Description returns the description of the command.
func (c *VersionCommand) Description() string {
	return "Displays the current version of the bot."
}

func (c *VersionCommand) Module() string {
	return ModuleBase
}

func (c *VersionCommand) Routes() []Route {
	return []Route{{
		Level:   acl.Everyone,
		Spam:    spamchannel.Soft,
		Handler: c.version,
	}}
}

func (c *VersionCommand) version(ctx context.Context, req *Request) error {
	embed := NewEmbed(req, "strawberry.py", "")
	embed.Fields = []discord.EmbedField{
		{Name: req.T(ctx, "Version"), Value: AppVersion, Inline: true},
		{Name: req.T(ctx, "Uptime"), Value: timeutil.Humanize(c.now().Sub(c.started)), Inline: true},
		{Name: req.T(ctx, "Running since"), Value: timeutil.FormatDateTime(c.started.In(c.loc))},
	}

	return req.ReplyEmbed(embed)
}
