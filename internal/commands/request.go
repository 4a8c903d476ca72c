package commands

import (
	"context"
	"sync"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
	"github.com/strawberry-py/strawberry-go/internal/i18n"
	"github.com/strawberry-py/strawberry-go/pkg/text"
)

// Responder answers interactions. It is satisfied by *api.Client.
type Responder interface {
	RespondInteraction(id discord.InteractionID, token string, resp api.InteractionResponse) error
	EditInteractionResponse(appID discord.AppID, token string, data api.EditInteractionResponseData) (*discord.Message, error)
	FollowUpInteraction(appID discord.AppID, token string, data api.InteractionResponseData) (*discord.Message, error)
}

type responseState int

const (
	pending responseState = iota
	deferred
	responded
)

// Request is a resolved command invocation.
type Request struct {
	Event *discord.InteractionEvent
	// Command is the qualified name, e.g. "acl mapping add".
	Command string
	Route   Route
	Options discord.CommandInteractionOptions
	Invoker acl.Invoker
	Actor   eventlog.Actor
	Source  eventlog.Source

	responder  Responder
	translator *i18n.Translator

	mu    sync.Mutex
	state responseState
}

// NewRequest creates a Request. translator may be nil, in which case
// messages are not translated.
func NewRequest(ev *discord.InteractionEvent, command string, route Route, opts discord.CommandInteractionOptions, responder Responder, translator *i18n.Translator) *Request {
	return &Request{
		Event:      ev,
		Command:    command,
		Route:      route,
		Options:    opts,
		responder:  responder,
		translator: translator,
	}
}

// T translates key for the invoker and substitutes {name} placeholders.
func (r *Request) T(ctx context.Context, key string, pairs ...string) string {
	if r.translator == nil {
		return i18n.Format(key, pairs...)
	}

	tc := i18n.Context{GuildID: r.Invoker.GuildID, UserID: r.Invoker.UserID}

	return r.translator.Translatef(ctx, tc, key, pairs...)
}

// Has reports whether the option was given.
func (r *Request) Has(name string) bool {
	for _, o := range r.Options {
		if o.Name == name {
			return true
		}
	}

	return false
}

// StringOption returns a string option or "".
func (r *Request) StringOption(name string) string {
	if !r.Has(name) {
		return ""
	}

	return r.Options.Find(name).String()
}

// IntOption returns an integer option.
func (r *Request) IntOption(name string) (int64, bool) {
	if !r.Has(name) {
		return 0, false
	}
	v, err := r.Options.Find(name).IntValue()

	return v, err == nil
}

// BoolOption returns a boolean option.
func (r *Request) BoolOption(name string) (bool, bool) {
	if !r.Has(name) {
		return false, false
	}
	v, err := r.Options.Find(name).BoolValue()

	return v, err == nil
}

// SnowflakeOption returns a user, role or channel option, or 0.
func (r *Request) SnowflakeOption(name string) discord.Snowflake {
	if !r.Has(name) {
		return 0
	}
	v, err := r.Options.Find(name).SnowflakeValue()
	if err != nil {
		return 0
	}

	return v
}

// Defer acknowledges the interaction. Later replies edit the deferred
// response.
func (r *Request) Defer() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != pending {
		return nil
	}

	err := r.responder.RespondInteraction(r.Event.ID, r.Event.Token, api.InteractionResponse{
		Type: api.DeferredMessageInteractionWithSource,
	})
	if err == nil {
		r.state = deferred
	}

	return err
}

// Reply sends a plain text answer.
func (r *Request) Reply(content string) error {
	return r.send(api.InteractionResponseData{
		Content:         option.NewNullableString(content),
		AllowedMentions: &api.AllowedMentions{},
	})
}

// ReplyEmbed sends embeds.
func (r *Request) ReplyEmbed(embeds ...discord.Embed) error {
	return r.send(api.InteractionResponseData{Embeds: &embeds})
}

// ReplyPages sends every page as a separate message.
func (r *Request) ReplyPages(pages []string) error {
	for _, page := range pages {
		if err := r.Reply(page); err != nil {
			return err
		}
	}

	return nil
}

// ReplyTable renders rows as code block pages.
func (r *Request) ReplyTable(header []string, rows [][]string) error {
	pages := text.CreateTable(header, rows, text.MessageLimit-6, false)
	for i, page := range pages {
		pages[i] = "```" + page + "```"
	}

	return r.ReplyPages(pages)
}

func (r *Request) send(data api.InteractionResponseData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case pending:
		err := r.responder.RespondInteraction(r.Event.ID, r.Event.Token, api.InteractionResponse{
			Type: api.MessageInteractionWithSource,
			Data: &data,
		})
		if err != nil {
			return err
		}
	case deferred:
		_, err := r.responder.EditInteractionResponse(r.Event.AppID, r.Event.Token, api.EditInteractionResponseData{
			Content:         data.Content,
			Embeds:          data.Embeds,
			AllowedMentions: data.AllowedMentions,
		})
		if err != nil {
			return err
		}
	default:
		if _, err := r.responder.FollowUpInteraction(r.Event.AppID, r.Event.Token, data); err != nil {
			return err
		}
	}
	r.state = responded

	return nil
}
