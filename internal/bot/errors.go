package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/commands"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/pkg/text"
)

// ErrGuildOnly is returned for guild-only commands invoked in direct
// messages.
var ErrGuildOnly = errors.New("command cannot be used in direct messages")

// ModuleDisabledError is returned for commands of a disabled module.
type ModuleDisabledError struct {
	Module string
}

func (e *ModuleDisabledError) Error() string {
	return fmt.Sprintf("module %s is disabled", e.Module)
}

// Is makes the error match acl.ErrAccessDenied.
func (e *ModuleDisabledError) Is(target error) bool {
	return target == acl.ErrAccessDenied
}

// failure is how an error is shown to the invoker.
type failure struct {
	title       string
	description string
	// traceback adds the error text to the embed and the bot event log.
	traceback bool
}

// report answers the invoker with an error embed. Unexpected errors are
// logged to the bot event log.
func (b *Bot) report(ctx context.Context, req *commands.Request, err error) {
	f := b.describe(ctx, req, err)

	embed := commands.NewErrorEmbed(req, f.title, f.description)
	if f.traceback {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  req.T(ctx, "Error content"),
			Value: text.Shorten(err.Error(), text.FieldLimit),
		})

		b.events.Critical(ctx, req.Actor, req.Source,
			fmt.Sprintf("Command %s failed: %s", req.Command, err),
			eventlog.WithError(err))
	}

	if rerr := req.ReplyEmbed(embed); rerr != nil {
		b.logger.Error("Failed to send error response",
			zap.String("command", req.Command),
			zap.NamedError("cause", err),
			zap.Error(rerr))
	}
}

func (b *Bot) describe(ctx context.Context, req *commands.Request, err error) failure {
	checkFailure := req.T(ctx, "Check failure")

	var (
		disabled     *ModuleDisabledError
		negative     *acl.NegativeOverwriteError
		insufficient *acl.InsufficientLevelError
		httpErr      *httputil.HTTPError
	)
	switch {
	case errors.As(err, &disabled):
		return failure{
			title:       checkFailure,
			description: req.T(ctx, "Module **{module}** is disabled", "module", disabled.Module),
		}

	case errors.Is(err, ErrGuildOnly):
		return failure{title: checkFailure, description: req.T(ctx, "This command can't be used in DMs")}

	case errors.As(err, &negative):
		switch negative.Kind {
		case acl.ChannelOverwrite:
			return failure{title: checkFailure, description: req.T(ctx, "This command cannot be used in this channel")}
		case acl.RoleOverwrite:
			return failure{
				title: checkFailure,
				description: req.T(ctx, "This command cannot be used by the role **{role}**",
					"role", b.roleName(req.Invoker.GuildID, discord.RoleID(negative.TargetID))),
			}
		default:
			return failure{title: checkFailure, description: req.T(ctx, "You have been denied the invocation of this command")}
		}

	case errors.As(err, &insufficient):
		return failure{
			title: checkFailure,
			description: req.T(ctx, "You need access permissions at least at level **{required}**, you only have **{actual}**",
				"required", insufficient.Required.String(),
				"actual", insufficient.Actual.String()),
		}

	case errors.Is(err, acl.ErrAccessDenied):
		return failure{title: checkFailure, description: req.T(ctx, "You have been denied the invocation of this command")}

	case errors.As(err, &httpErr):
		title := req.T(ctx, "HTTP Exception")
		switch {
		case httpErr.Status == http.StatusForbidden:
			return failure{title: title, description: req.T(ctx, "Forbidden")}
		case httpErr.Status == http.StatusNotFound:
			return failure{title: title, description: req.T(ctx, "NotFound")}
		case httpErr.Status >= http.StatusInternalServerError:
			return failure{title: title, description: req.T(ctx, "Discord Server Error"), traceback: true}
		default:
			return failure{title: req.T(ctx, "Internal error"), description: req.T(ctx, "Network error"), traceback: true}
		}

	case errors.Is(err, context.DeadlineExceeded):
		return failure{title: req.T(ctx, "Error"), description: req.T(ctx, "The command took too long"), traceback: true}
	}

	return failure{
		title:       req.T(ctx, "Error"),
		description: req.T(ctx, "An unexpected error occurred"),
		traceback:   true,
	}
}

func (b *Bot) roleName(guildID discord.GuildID, roleID discord.RoleID) string {
	if b.dir != nil {
		if role, err := b.dir.Role(guildID, roleID); err == nil {
			return text.Sanitise(role.Name)
		}
	}

	return roleID.String()
}
