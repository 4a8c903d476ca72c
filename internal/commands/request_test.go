package commands_test

import (
	"context"
	"testing"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/strawberry-py/strawberry-go/internal/commands"
	"github.com/strawberry-py/strawberry-go/pkg/test"
)

func newEvent() *discord.InteractionEvent {
	return &discord.InteractionEvent{ID: 100, AppID: 7, Token: "token"}
}

func contentOf(data *api.InteractionResponseData) string {
	if data == nil || data.Content == nil {
		return ""
	}

	return data.Content.Val
}

func TestRequest_Options(t *testing.T) {
	req := commands.NewRequest(newEvent(), "acl overwrite", commands.Route{}, discord.CommandInteractionOptions{
		{Name: "command", Type: discord.StringOptionType, Value: json.Raw(`"ping"`)},
		{Name: "allow", Type: discord.BooleanOptionType, Value: json.Raw(`true`)},
		{Name: "limit", Type: discord.IntegerOptionType, Value: json.Raw(`3`)},
		{Name: "role", Type: discord.RoleOptionType, Value: json.Raw(`"42"`)},
	}, nil, nil)

	assert.Equal(t, "ping", req.StringOption("command"))
	assert.Equal(t, "", req.StringOption("missing"))

	allow, ok := req.BoolOption("allow")
	assert.True(t, ok)
	assert.True(t, allow)

	limit, ok := req.IntOption("limit")
	assert.True(t, ok)
	assert.EqualValues(t, 3, limit)

	_, ok = req.IntOption("missing")
	assert.False(t, ok)

	assert.Equal(t, discord.Snowflake(42), req.SnowflakeOption("role"))
	assert.Equal(t, discord.Snowflake(0), req.SnowflakeOption("user"))
}

func TestRequest_ReplySequence(t *testing.T) {
	r := test.NewMockResponder(t)
	req := commands.NewRequest(newEvent(), "ping", commands.Route{}, nil, r, nil)

	r.On("RespondInteraction", discord.InteractionID(100), "token", mock.MatchedBy(func(resp api.InteractionResponse) bool {
		return resp.Type == api.MessageInteractionWithSource && contentOf(resp.Data) == "first"
	})).Return(nil).Once()
	r.On("FollowUpInteraction", discord.AppID(7), "token", mock.MatchedBy(func(data api.InteractionResponseData) bool {
		return contentOf(&data) == "second"
	})).Return(&discord.Message{}, nil).Once()

	require.NoError(t, req.Reply("first"))
	require.NoError(t, req.Reply("second"))
}

func TestRequest_DeferThenReply(t *testing.T) {
	r := test.NewMockResponder(t)
	req := commands.NewRequest(newEvent(), "strawberry sync", commands.Route{}, nil, r, nil)

	r.On("RespondInteraction", discord.InteractionID(100), "token", mock.MatchedBy(func(resp api.InteractionResponse) bool {
		return resp.Type == api.DeferredMessageInteractionWithSource
	})).Return(nil).Once()
	r.On("EditInteractionResponse", discord.AppID(7), "token", mock.MatchedBy(func(data api.EditInteractionResponseData) bool {
		return data.Content != nil && data.Content.Val == "done"
	})).Return(&discord.Message{}, nil).Once()

	require.NoError(t, req.Defer())
	require.NoError(t, req.Defer())
	require.NoError(t, req.Reply("done"))
}

func TestRequest_TranslateWithoutTranslator(t *testing.T) {
	req := commands.NewRequest(newEvent(), "ping", commands.Route{}, nil, nil, nil)

	assert.Equal(t, "Role **mods** mapped.", req.T(context.Background(), "Role **{role}** mapped.", "role", "mods"))
}

func TestBuildOptions(t *testing.T) {
	t.Run("Flat", func(t *testing.T) {
		opts := commands.BuildOptions([]commands.Route{{
			Options: []discord.CommandOptionValue{&discord.StringOption{OptionName: "name"}},
		}})
		require.Len(t, opts, 1)
		assert.IsType(t, &discord.StringOption{}, opts[0])
	})

	t.Run("Grouped", func(t *testing.T) {
		opts := commands.BuildOptions([]commands.Route{
			{Path: "get"},
			{Path: "server set"},
			{Path: "server unset"},
		})
		require.Len(t, opts, 2)

		sub, ok := opts[0].(*discord.SubcommandOption)
		require.True(t, ok)
		assert.Equal(t, "get", sub.OptionName)

		group, ok := opts[1].(*discord.SubcommandGroupOption)
		require.True(t, ok)
		assert.Equal(t, "server", group.OptionName)
		require.Len(t, group.Subcommands, 2)
		assert.Equal(t, "unset", group.Subcommands[1].OptionName)
	})
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "ping", commands.QualifiedName("ping", ""))
	assert.Equal(t, "acl mapping add", commands.QualifiedName("acl", "mapping add"))
}
