package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/strawberry-py/strawberry-go/internal/acl"
	"github.com/strawberry-py/strawberry-go/internal/commands"
	"github.com/strawberry-py/strawberry-go/pkg/test"
)

func TestNewCommandManager(t *testing.T) {
	appID := discord.AppID(12345)

	t.Run("SuccessWithUniqueCommands", func(t *testing.T) {
		mockCmd1 := test.NewMockCommand(t)
		mockCmd1.On("Name").Return("ping")

		mockCmd2 := test.NewMockCommand(t)
		mockCmd2.On("Name").Return("help")

		params := commands.CommandManagerParams{
			ApplicationID: appID,
			Logger:        zap.NewNop(),
			Commands:      []commands.Command{mockCmd1, mockCmd2},
		}

		cm := commands.NewCommandManager(params)
		require.NotNil(t, cm)

		retCmd1, ok := cm.GetCommand("ping")
		assert.True(t, ok)
		assert.Equal(t, mockCmd1, retCmd1)

		retCmd2, ok := cm.GetCommand("help")
		assert.True(t, ok)
		assert.Equal(t, mockCmd2, retCmd2)

		_, ok = cm.GetCommand("nonexistent")
		assert.False(t, ok)
	})

	t.Run("NoCommands", func(t *testing.T) {
		params := commands.CommandManagerParams{
			ApplicationID: appID,
			Logger:        zap.NewNop(),
			Commands:      []commands.Command{},
		}

		cm := commands.NewCommandManager(params)
		require.NotNil(t, cm)

		_, ok := cm.GetCommand("any")
		assert.False(t, ok)
	})

	t.Run("NilCommandInSlice", func(t *testing.T) {
		mockCmd1 := test.NewMockCommand(t)
		mockCmd1.On("Name").Return("valid")

		params := commands.CommandManagerParams{
			ApplicationID: appID,
			Logger:        zap.NewNop(),
			Commands:      []commands.Command{nil, mockCmd1, nil},
		}

		cm := commands.NewCommandManager(params)
		require.NotNil(t, cm)

		retCmd1, ok := cm.GetCommand("valid")
		assert.True(t, ok)
		assert.Equal(t, mockCmd1, retCmd1)

		_, ok = cm.GetCommand("nil") // Ensure nil commands are not somehow registered
		assert.False(t, ok)
	})

	t.Run("DuplicateCommandNames", func(t *testing.T) {
		mockCmd1a := test.NewMockCommand(t)
		mockCmd1a.On("Name").Return("dup")

		mockCmd1b := test.NewMockCommand(t)
		mockCmd1b.On("Name").Return("dup") // CommandManager logs a warning but takes the first one.

		mockCmd2 := test.NewMockCommand(t)
		mockCmd2.On("Name").Return("unique")

		params := commands.CommandManagerParams{
			ApplicationID: appID,
			Logger:        zap.NewNop(), // In a real scenario with a test logger, we could check for the warning.
			Commands:      []commands.Command{mockCmd1a, mockCmd1b, mockCmd2},
		}

		cm := commands.NewCommandManager(params)
		require.NotNil(t, cm)

		retCmdDup, ok := cm.GetCommand("dup")
		assert.True(t, ok)
		assert.Equal(t, mockCmd1a, retCmdDup) // Should be the first one registered
		assert.NotEqual(t, mockCmd1b, retCmdDup)

		retCmdUnique, ok := cm.GetCommand("unique")
		assert.True(t, ok)
		assert.Equal(t, mockCmd2, retCmdUnique)
	})

	t.Run("NilLogger", func(t *testing.T) {
		mockCmd1 := test.NewMockCommand(t)
		mockCmd1.On("Name").Return("testlog")

		params := commands.CommandManagerParams{
			ApplicationID: appID,
			Logger:        nil, // Explicitly nil
			Commands:      []commands.Command{mockCmd1},
		}

		cm := commands.NewCommandManager(params)
		require.NotNil(t, cm) // Should default to zap.NewNop()

		retCmd1, ok := cm.GetCommand("testlog")
		assert.True(t, ok)
		assert.Equal(t, mockCmd1, retCmd1)
	})
}

func TestCommandManager_Resolve(t *testing.T) {
	handler := func(context.Context, *commands.Request) error { return nil }

	cmd := test.NewMockCommand(t)
	cmd.On("Name").Return("acl")
	cmd.On("Routes").Return([]commands.Route{
		{Path: "mapping add", Level: acl.GuildOwner, Handler: handler},
		{Path: "mapping list", Level: acl.Submod, Handler: handler},
	})

	cm := commands.NewCommandManager(commands.CommandManagerParams{
		ApplicationID: 1,
		Logger:        zaptest.NewLogger(t),
		Commands:      []commands.Command{cmd},
	})

	data := &discord.CommandInteraction{
		Name: "acl",
		Options: discord.CommandInteractionOptions{{
			Name: "mapping",
			Type: discord.SubcommandGroupOptionType,
			Options: []discord.CommandInteractionOption{{
				Name: "add",
				Type: discord.SubcommandOptionType,
				Options: []discord.CommandInteractionOption{
					{Name: "role", Type: discord.RoleOptionType, Value: json.Raw(`"42"`)},
				},
			}},
		}},
	}

	got, route, opts, ok := cm.Resolve(data)
	require.True(t, ok)
	assert.Equal(t, cmd, got)
	assert.Equal(t, "mapping add", route.Path)
	assert.Equal(t, acl.GuildOwner, route.Level)
	require.Len(t, opts, 1)
	assert.Equal(t, "role", opts[0].Name)

	r, ok := cm.Route("acl mapping list")
	require.True(t, ok)
	assert.Equal(t, acl.Submod, r.Level)

	_, ok = cm.Route("acl mapping remove")
	assert.False(t, ok)

	data.Name = "unknown"
	_, _, _, ok = cm.Resolve(data)
	assert.False(t, ok)
}

func TestCommandManager_RegisterCommands(t *testing.T) {
	newManager := func(t *testing.T) *commands.CommandManager {
		cmd := test.NewMockCommand(t)
		cmd.On("Name").Return("ping")
		cmd.On("Description").Return("Ping.")
		cmd.On("Routes").Return([]commands.Route{{}})

		return commands.NewCommandManager(commands.CommandManagerParams{
			ApplicationID: 7,
			Logger:        zaptest.NewLogger(t),
			Commands:      []commands.Command{cmd},
		})
	}

	t.Run("Global", func(t *testing.T) {
		cm := newManager(t)
		r := test.NewMockRegistrar(t)
		r.On("BulkOverwriteCommands", discord.AppID(7), mock.MatchedBy(func(cmds []api.CreateCommandData) bool {
			return len(cmds) == 1 && cmds[0].Name == "ping"
		})).Return([]discord.Command{{Name: "ping"}}, nil).Once()

		require.NoError(t, cm.RegisterCommands(context.Background(), r, nil))
	})

	t.Run("PerGuild", func(t *testing.T) {
		cm := newManager(t)
		r := test.NewMockRegistrar(t)
		r.On("BulkOverwriteGuildCommands", discord.AppID(7), discord.GuildID(1), mock.Anything).
			Return([]discord.Command{{Name: "ping"}}, nil).Once()
		r.On("BulkOverwriteGuildCommands", discord.AppID(7), discord.GuildID(2), mock.Anything).
			Return(nil, errors.New("missing access")).Once()

		err := cm.RegisterCommands(context.Background(), r, []discord.GuildID{1, 2})
		assert.ErrorContains(t, err, "missing access")
	})

	t.Run("Canceled", func(t *testing.T) {
		cm := newManager(t)
		r := test.NewMockRegistrar(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := cm.RegisterCommands(ctx, r, []discord.GuildID{1, 2})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCommandManager_Definitions(t *testing.T) {
	ping := test.NewMockCommand(t)
	ping.On("Name").Return("ping")
	ping.On("Description").Return("Ping.")
	ping.On("Routes").Return([]commands.Route{{Level: acl.Everyone}})

	admin := test.NewMockCommand(t)
	admin.On("Name").Return("strawberry")
	admin.On("Description").Return("Manage bot instance.")
	admin.On("Routes").Return(commands.GuildOnly(
		commands.Route{Path: "restart", Level: acl.BotOwner},
		commands.Route{Path: "shutdown", Level: acl.BotOwner},
	))

	cm := commands.NewCommandManager(commands.CommandManagerParams{
		Logger:   zaptest.NewLogger(t),
		Commands: []commands.Command{ping, admin},
	})

	defs := make(map[string]api.CreateCommandData)
	for _, d := range cm.Definitions() {
		defs[d.Name] = d
	}
	require.Len(t, defs, 2)
	assert.False(t, defs["ping"].NoDMPermission)
	assert.True(t, defs["strawberry"].NoDMPermission)
}

func TestRoute_AvailableIn(t *testing.T) {
	routes := commands.GuildOnly(commands.Route{Path: "a"}, commands.Route{Path: "b"})
	for _, r := range routes {
		assert.True(t, r.GuildOnly, r.Path)
		assert.False(t, r.AvailableIn(0), r.Path)
		assert.True(t, r.AvailableIn(1), r.Path)
	}

	assert.True(t, commands.Route{}.AvailableIn(0))
}

func TestCatalog(t *testing.T) {
	catalog := commands.NewCatalog(nil, nil)
	assert.ErrorIs(t, catalog.Sync(context.Background()), commands.ErrNotLoaded)
	assert.Empty(t, catalog.Commands())

	cmd := test.NewMockCommand(t)
	cmd.On("Name").Return("version")
	cmd.On("Routes").Return([]commands.Route{{Level: acl.Everyone}})

	commands.NewCommandManager(commands.CommandManagerParams{
		Logger:   zaptest.NewLogger(t),
		Commands: []commands.Command{cmd},
		Catalog:  catalog,
	})

	assert.Len(t, catalog.Commands(), 1)
	_, ok := catalog.Route("version")
	assert.True(t, ok)
}
