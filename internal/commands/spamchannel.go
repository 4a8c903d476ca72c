package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/internal/spamchannel"
)

// SpamChannelCommand manages the bot spam channels of a guild.
type SpamChannelCommand struct {
	store  spamchannel.Store
	dir    Directory
	events *eventlog.Logger
}

// NewSpamChannelCommand creates a new SpamChannelCommand instance.
func NewSpamChannelCommand(store spamchannel.Store, dir Directory, events *eventlog.EventLog) Command {
	return &SpamChannelCommand{store: store, dir: dir, events: events.Guild().Module(ModuleAdmin)}
}

func (c *SpamChannelCommand) Name() string        { return "spamchannel" }
func (c *SpamChannelCommand) Description() string { return "Manage bot spam channels." }
func (c *SpamChannelCommand) Module() string      { return ModuleAdmin }

func (c *SpamChannelCommand) Routes() []Route {
	channel := []discord.CommandOptionValue{channelOption("channel", "Text channel")}

	return GuildOnly([]Route{
		{Path: "add", Description: "Set channel as bot spam channel.", Options: channel, Level: acl.Mod, Handler: c.add},
		{Path: "list", Description: "List bot spam channels on this server.", Level: acl.Submod, Handler: c.list},
		{Path: "remove", Description: "Unset channel as spam channel.", Options: channel, Level: acl.Mod, Handler: c.remove},
		{Path: "primary", Description: "Set channel as primary bot channel.", Options: channel, Level: acl.Mod, Handler: c.primary},
	}...)
}

func (c *SpamChannelCommand) channel(req *Request) (discord.ChannelID, string) {
	id := discord.ChannelID(req.SnowflakeOption("channel"))
	return id, id.Mention()
}

func (c *SpamChannelCommand) add(ctx context.Context, req *Request) error {
	id, mention := c.channel(req)

	err := c.store.Add(ctx, req.Invoker.GuildID, id)
	if errors.Is(err, spamchannel.ErrExists) {
		return req.Reply(req.T(ctx, "{channel} is already spam channel.", "channel", mention))
	}
	if err != nil {
		return err
	}

	c.events.Info(ctx, req.Actor, req.Source, fmt.Sprintf("Channel %s set as spam channel.", channelName(c.dir, id)))

	return req.Reply(req.T(ctx, "Channel {channel} added as spam channel.", "channel", mention))
}

func (c *SpamChannelCommand) list(ctx context.Context, req *Request) error {
	channels, err := c.store.List(ctx, req.Invoker.GuildID)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		return req.Reply(req.T(ctx, "This server has no spam channels."))
	}

	sort.SliceStable(channels, func(i, j int) bool { return channels[i].Primary && !channels[j].Primary })

	rows := make([][]string, 0, len(channels))
	for _, ch := range channels {
		primary := ""
		if ch.Primary {
			primary = req.T(ctx, "Yes")
		}
		rows = append(rows, []string{channelName(c.dir, ch.ChannelID), primary})
	}

	return req.ReplyTable([]string{req.T(ctx, "Channel name"), req.T(ctx, "Primary")}, rows)
}

func (c *SpamChannelCommand) remove(ctx context.Context, req *Request) error {
	id, mention := c.channel(req)

	removed, err := c.store.Remove(ctx, req.Invoker.GuildID, id)
	if err != nil {
		return err
	}
	if !removed {
		return req.Reply(req.T(ctx, "{channel} is not spam channel.", "channel", mention))
	}

	c.events.Info(ctx, req.Actor, req.Source, fmt.Sprintf("Channel %s is no longer a spam channel.", channelName(c.dir, id)))

	return req.Reply(req.T(ctx, "Spam channel {channel} removed.", "channel", mention))
}

func (c *SpamChannelCommand) primary(ctx context.Context, req *Request) error {
	id, mention := c.channel(req)

	err := c.store.SetPrimary(ctx, req.Invoker.GuildID, id)
	if errors.Is(err, spamchannel.ErrNotSpamChannel) {
		return req.Reply(req.T(ctx, "Channel {channel} is not marked as spam channel, it cannot be made primary.", "channel", mention))
	}
	if err != nil {
		return err
	}

	c.events.Info(ctx, req.Actor, req.Source, fmt.Sprintf("Channel %s set as primary spam channel.", channelName(c.dir, id)))

	return req.Reply(req.T(ctx, "Channel {channel} set as primary.", "channel", mention))
}
