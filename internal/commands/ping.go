package commands

import (
	"context"
	"strconv"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/spamchannel"
)

// Prober makes a cheap authenticated REST call. It is satisfied by
// *api.Client.
type Prober interface {
	Me() (*discord.User, error)
}

// MeasureLatency times one round trip to the Discord API.
func MeasureLatency(p Prober) (time.Duration, error) {
	start := time.Now()
	if _, err := p.Me(); err != nil {
		return 0, err
	}

	return time.Since(start), nil
}

// PingCommand reports the latency to the Discord API.
type PingCommand struct {
	prober Prober
}

// NewPingCommand creates a new PingCommand instance.
func NewPingCommand(p Prober) Command {
	return &PingCommand{prober: p}
}

// Name returns the name of the command.
func (c *PingCommand) Name() string {
	return "ping"
}

// Description returns the description of the command.
func (c *PingCommand) Description() string {
	return "Measure the latency to Discord."
}

func (c *PingCommand) Module() string {
	return ModuleBase
}

func (c *PingCommand) Routes() []Route {
	return []Route{{
		Level:   acl.Everyone,
		Spam:    spamchannel.Soft,
		Handler: c.ping,
	}}
}

func (c *PingCommand) ping(ctx context.Context, req *Request) error {
	latency, err := MeasureLatency(c.prober)
	if err != nil {
		return err
	}

	return req.Reply(req.T(ctx, "Pong! Latency is **{latency}** ms.",
		"latency", strconv.FormatInt(latency.Milliseconds(), 10)))
}
