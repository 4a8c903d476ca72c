package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/commands"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/internal/spamchannel"
)

// HandleInteraction runs the command an interaction refers to and reports
// its errors to the invoker.
func (b *Bot) HandleInteraction(ctx context.Context, ev *discord.InteractionEvent) {
	data, ok := ev.Data.(*discord.CommandInteraction)
	if !ok {
		b.logger.Debug("Received unhandled interaction type", zap.String("type", fmt.Sprintf("%T", ev.Data)))
		return
	}

	cmd, route, opts, ok := b.commands.Resolve(data)
	if !ok {
		b.logger.Warn("Unknown command", zap.String("commandName", data.Name))

		req := b.newRequest(ev, data.Name, commands.Route{}, nil)
		embed := commands.NewErrorEmbed(req, req.T(ctx, "Command error"), req.T(ctx, "Command not found"))
		if err := req.ReplyEmbed(embed); err != nil {
			b.logger.Error("Failed to respond to interaction for unknown command", zap.Error(err))
		}

		return
	}

	req := b.newRequest(ev, commands.QualifiedName(cmd.Name(), route.Path), route, opts)
	log := b.logger.With(zap.String("command", req.Command), zap.Stringer("userID", req.Actor.ID))
	log.Info("Received slash command")

	if err := b.dispatch(ctx, cmd, req); err != nil {
		log.Debug("Command failed", zap.Error(err))
		b.report(ctx, req, err)

		return
	}

	log.Debug("Command executed successfully")
}

// dispatch runs the checks of a request and then its handler.
func (b *Bot) dispatch(ctx context.Context, cmd commands.Command, req *commands.Request) error {
	if b.registry != nil && !b.registry.Enabled(cmd.Module()) {
		return &ModuleDisabledError{Module: cmd.Module()}
	}

	if !req.Route.AvailableIn(req.Invoker.GuildID) {
		return ErrGuildOnly
	}

	if err := b.acl.Check(ctx, req.Command, req.Route.Level, req.Invoker); err != nil {
		return err
	}

	redirect, err := b.guard.Check(ctx, req.Invoker, req.Route.Spam)
	if redirect.IsValid() {
		if rerr := req.Reply(req.Invoker.UserID.Mention() + " 👉 " + redirect.Mention()); rerr != nil {
			return rerr
		}
	}
	if errors.Is(err, spamchannel.ErrLimitReached) {
		return nil
	}
	if err != nil {
		return err
	}

	return req.Route.Handler(ctx, req)
}

func (b *Bot) newRequest(ev *discord.InteractionEvent, command string, route commands.Route, opts discord.CommandInteractionOptions) *commands.Request {
	req := commands.NewRequest(ev, command, route, opts, b.responder, b.translator)
	req.Invoker, req.Actor, req.Source = b.describeInvoker(ev)

	return req
}

// describeInvoker collects who runs an interaction and where. Lookups that
// miss the cache leave names empty.
func (b *Bot) describeInvoker(ev *discord.InteractionEvent) (acl.Invoker, eventlog.Actor, eventlog.Source) {
	inv := acl.Invoker{GuildID: ev.GuildID, ChannelID: ev.ChannelID}
	src := eventlog.Source{GuildID: ev.GuildID, ChannelID: ev.ChannelID}

	var actor eventlog.Actor
	switch {
	case ev.Member != nil:
		actor = eventlog.Actor{ID: ev.Member.User.ID, Name: ev.Member.User.Username}
	case ev.User != nil:
		actor = eventlog.Actor{ID: ev.User.ID, Name: ev.User.Username}
	}
	inv.UserID = actor.ID

	if b.dir == nil {
		return inv, actor, src
	}

	if ch, err := b.dir.Channel(ev.ChannelID); err == nil {
		src.ChannelName = ch.Name
	}

	if !ev.GuildID.IsValid() {
		return inv, actor, src
	}

	if guild, err := b.dir.Guild(ev.GuildID); err == nil {
		src.GuildName = guild.Name
		inv.GuildOwnerID = guild.OwnerID
	}
	if ev.Member != nil {
		inv.RoleIDs = b.sortRoles(ev.GuildID, ev.Member.RoleIDs)
	}

	return inv, actor, src
}

// sortRoles orders roleIDs from the highest position down and appends the
// @everyone role.
func (b *Bot) sortRoles(guildID discord.GuildID, roleIDs []discord.RoleID) []discord.RoleID {
	positions := make(map[discord.RoleID]int, len(roleIDs))
	for _, id := range roleIDs {
		if role, err := b.dir.Role(guildID, id); err == nil {
			positions[id] = role.Position
		}
	}

	sorted := make([]discord.RoleID, 0, len(roleIDs)+1)
	sorted = append(sorted, roleIDs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return positions[sorted[i]] > positions[sorted[j]]
	})

	return append(sorted, discord.RoleID(guildID))
}
