package acl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/strawberry-py/strawberry-go/internal/acl"
)

const (
	guild      = discord.GuildID(1)
	channel    = discord.ChannelID(10)
	modRole    = discord.RoleID(20)
	memberRole = discord.RoleID(21)
	owner      = discord.UserID(30)
	guildOwner = discord.UserID(31)
	user       = discord.UserID(32)
)

func newService(t *testing.T) (*acl.Service, *memoryStore) {
	t.Helper()

	store := newMemoryStore()
	store.mappings[guild] = map[discord.RoleID]acl.Level{
		modRole:    acl.Mod,
		memberRole: acl.Member,
	}

	return acl.NewService(store, acl.NewOwners(owner), zaptest.NewLogger(t)), store
}

func invoker(id discord.UserID, roles ...discord.RoleID) acl.Invoker {
	return acl.Invoker{
		GuildID:      guild,
		ChannelID:    channel,
		UserID:       id,
		GuildOwnerID: guildOwner,
		RoleIDs:      append(roles, discord.RoleID(guild)),
	}
}

func TestParseLevel(t *testing.T) {
	level, err := acl.ParseLevel("guild_owner")
	require.NoError(t, err)
	assert.Equal(t, acl.GuildOwner, level)
	assert.Equal(t, "GUILD_OWNER", level.String())

	_, err = acl.ParseLevel("admin")
	assert.ErrorIs(t, err, acl.ErrUnknownLevel)

	assert.Equal(t, []string{"EVERYONE", "MEMBER", "SUBMOD", "MOD", "GUILD_OWNER", "BOT_OWNER"}, acl.LevelNames())
}

func TestService_MemberLevel(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)

	tests := []struct {
		name string
		inv  acl.Invoker
		want acl.Level
	}{
		{"BotOwner", invoker(owner), acl.BotOwner},
		{"GuildOwner", invoker(guildOwner), acl.GuildOwner},
		{"HighestMappedRole", invoker(user, modRole, memberRole), acl.Mod},
		{"LowerRole", invoker(discord.UserID(33), memberRole), acl.Member},
		{"NoMapping", invoker(discord.UserID(34)), acl.Everyone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := s.MemberLevel(ctx, tt.inv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}

	t.Run("Cached", func(t *testing.T) {
		before := store.mappingLookups
		_, err := s.MemberLevel(ctx, invoker(user, modRole, memberRole))
		require.NoError(t, err)
		assert.Equal(t, before, store.mappingLookups)
	})
}

func TestService_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("DirectMessage", func(t *testing.T) {
		tests := []struct {
			name    string
			command string
			level   acl.Level
			user    discord.UserID
			denied  bool
		}{
			{"UserPing", "ping", acl.Everyone, user, false},
			{"UserMemberCommand", "language set", acl.Member, user, false},
			{"UserOwnerCommand", "strawberry shutdown", acl.BotOwner, user, true},
			{"OwnerOwnerCommand", "strawberry shutdown", acl.BotOwner, owner, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s, _ := newService(t)
				err := s.Check(ctx, tt.command, tt.level, acl.Invoker{UserID: tt.user})
				if !tt.denied {
					assert.NoError(t, err)
					return
				}

				var insufficient *acl.InsufficientLevelError
				require.ErrorAs(t, err, &insufficient)
				assert.Equal(t, acl.BotOwner, insufficient.Required)
				assert.ErrorIs(t, err, acl.ErrAccessDenied)
			})
		}
	})

	t.Run("BotOwnerBypassesOverwrites", func(t *testing.T) {
		s, store := newService(t)
		store.overwrites[overwriteKey{acl.UserOverwrite, guild, discord.Snowflake(owner), "ping"}] = false

		assert.NoError(t, s.Check(ctx, "ping", acl.Everyone, invoker(owner)))
	})

	t.Run("LevelSufficient", func(t *testing.T) {
		s, _ := newService(t)
		assert.NoError(t, s.Check(ctx, "acl mapping list", acl.Submod, invoker(user, modRole)))
	})

	t.Run("LevelInsufficient", func(t *testing.T) {
		s, _ := newService(t)
		err := s.Check(ctx, "acl mapping add", acl.GuildOwner, invoker(user, modRole))

		var insufficient *acl.InsufficientLevelError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, acl.GuildOwner, insufficient.Required)
		assert.Equal(t, acl.Mod, insufficient.Actual)
		assert.ErrorIs(t, err, acl.ErrAccessDenied)
	})

	t.Run("DefaultOverridesLevel", func(t *testing.T) {
		s, store := newService(t)
		store.defaults[guild] = map[string]acl.Level{"ping": acl.Mod}

		assert.ErrorIs(t, s.Check(ctx, "ping", acl.Everyone, invoker(user, memberRole)), acl.ErrAccessDenied)
		assert.NoError(t, s.Check(ctx, "ping", acl.Everyone, invoker(discord.UserID(40), modRole)))
	})

	t.Run("UserOverwriteWinsOverChannel", func(t *testing.T) {
		s, store := newService(t)
		store.overwrites[overwriteKey{acl.UserOverwrite, guild, discord.Snowflake(user), "ping"}] = true
		store.overwrites[overwriteKey{acl.ChannelOverwrite, guild, discord.Snowflake(channel), "ping"}] = false

		assert.NoError(t, s.Check(ctx, "ping", acl.Mod, invoker(user)))
	})

	t.Run("NegativeChannelOverwrite", func(t *testing.T) {
		s, store := newService(t)
		store.overwrites[overwriteKey{acl.ChannelOverwrite, guild, discord.Snowflake(channel), "ping"}] = false

		err := s.Check(ctx, "ping", acl.Everyone, invoker(user, modRole))

		var negative *acl.NegativeOverwriteError
		require.True(t, errors.As(err, &negative))
		assert.Equal(t, acl.ChannelOverwrite, negative.Kind)
		assert.Equal(t, discord.Snowflake(channel), negative.TargetID)
		assert.ErrorIs(t, err, acl.ErrAccessDenied)
	})

	t.Run("RoleOverwriteLowestFirst", func(t *testing.T) {
		s, store := newService(t)
		store.overwrites[overwriteKey{acl.RoleOverwrite, guild, discord.Snowflake(modRole), "ping"}] = true
		store.overwrites[overwriteKey{acl.RoleOverwrite, guild, discord.Snowflake(memberRole), "ping"}] = false

		err := s.Check(ctx, "ping", acl.Everyone, invoker(user, modRole, memberRole))

		var negative *acl.NegativeOverwriteError
		require.True(t, errors.As(err, &negative))
		assert.Equal(t, discord.Snowflake(memberRole), negative.TargetID)
	})

	t.Run("RoleOverwriteAllows", func(t *testing.T) {
		s, store := newService(t)
		store.overwrites[overwriteKey{acl.RoleOverwrite, guild, discord.Snowflake(memberRole), "admin"}] = true

		assert.NoError(t, s.Check(ctx, "admin", acl.BotOwner, invoker(user, memberRole)))
	})
}

func TestService_CanInvoke(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	assert.True(t, s.CanInvoke(ctx, "ping", acl.Everyone, invoker(user)))
	assert.False(t, s.CanInvoke(ctx, "strawberry shutdown", acl.BotOwner, invoker(user)))
}

func TestService_AddMapping(t *testing.T) {
	ctx := context.Background()
	newRole := discord.RoleID(50)

	t.Run("OwnerLevels", func(t *testing.T) {
		s, _ := newService(t)
		assert.ErrorIs(t, s.AddMapping(ctx, invoker(owner), newRole, acl.GuildOwner), acl.ErrOwnerLevel)
		assert.ErrorIs(t, s.AddMapping(ctx, invoker(owner), newRole, acl.BotOwner), acl.ErrOwnerLevel)
	})

	t.Run("CallerMustBeAbove", func(t *testing.T) {
		s, _ := newService(t)
		err := s.AddMapping(ctx, invoker(user, modRole), newRole, acl.Mod)

		var tooHigh *acl.LevelTooHighError
		require.True(t, errors.As(err, &tooHigh))
		assert.Equal(t, acl.Mod, tooHigh.Caller)
	})

	t.Run("Added", func(t *testing.T) {
		s, store := newService(t)
		require.NoError(t, s.AddMapping(ctx, invoker(guildOwner), newRole, acl.Mod))
		assert.Equal(t, acl.Mod, store.mappings[guild][newRole])

		assert.ErrorIs(t, s.AddMapping(ctx, invoker(guildOwner), newRole, acl.Submod), acl.ErrExists)
	})

	t.Run("InvalidatesCache", func(t *testing.T) {
		s, _ := newService(t)
		inv := invoker(discord.UserID(60), newRole)

		level, err := s.MemberLevel(ctx, inv)
		require.NoError(t, err)
		assert.Equal(t, acl.Everyone, level)

		require.NoError(t, s.AddMapping(ctx, invoker(guildOwner), newRole, acl.Submod))

		level, err = s.MemberLevel(ctx, inv)
		require.NoError(t, err)
		assert.Equal(t, acl.Submod, level)
	})
}

func TestService_RemoveMapping(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)

	assert.ErrorIs(t, s.RemoveMapping(ctx, invoker(guildOwner), discord.RoleID(99)), acl.ErrNotFound)

	var tooHigh *acl.LevelTooHighError
	assert.True(t, errors.As(s.RemoveMapping(ctx, invoker(user, modRole), modRole), &tooHigh))

	require.NoError(t, s.RemoveMapping(ctx, invoker(guildOwner), modRole))
	_, ok := store.mappings[guild][modRole]
	assert.False(t, ok)
}

func TestService_Defaults(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)

	t.Run("CallerCannotInvoke", func(t *testing.T) {
		err := s.AddDefault(ctx, invoker(user, memberRole), "acl mapping add", acl.GuildOwner, acl.Member)
		assert.ErrorIs(t, err, acl.ErrAccessDenied)
	})

	t.Run("AddAndRemove", func(t *testing.T) {
		require.NoError(t, s.AddDefault(ctx, invoker(guildOwner), "ping", acl.Everyone, acl.Mod))
		assert.Equal(t, acl.Mod, store.defaults[guild]["ping"])

		assert.ErrorIs(t, s.AddDefault(ctx, invoker(guildOwner), "ping", acl.Everyone, acl.Submod), acl.ErrExists)

		level, err := s.EffectiveLevel(ctx, guild, "ping", acl.Everyone)
		require.NoError(t, err)
		assert.Equal(t, acl.Mod, level)

		require.NoError(t, s.RemoveDefault(ctx, invoker(guildOwner), "ping", acl.Everyone))
		assert.ErrorIs(t, s.RemoveDefault(ctx, invoker(guildOwner), "ping", acl.Everyone), acl.ErrNotFound)
	})
}

func TestService_Overwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	o := acl.Overwrite{Kind: acl.UserOverwrite, TargetID: discord.Snowflake(user), Command: "ping", Allow: false}
	require.NoError(t, s.AddOverwrite(ctx, invoker(guildOwner), o, acl.Everyone))
	assert.ErrorIs(t, s.AddOverwrite(ctx, invoker(guildOwner), o, acl.Everyone), acl.ErrExists)

	list, err := s.Overwrites(ctx, guild, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, guild, list[0].GuildID)

	assert.ErrorIs(t, s.Check(ctx, "ping", acl.Everyone, invoker(user)), acl.ErrAccessDenied)

	require.NoError(t, s.RemoveOverwrite(ctx, invoker(guildOwner), acl.UserOverwrite, discord.Snowflake(user), "ping", acl.Everyone))
	assert.ErrorIs(t,
		s.RemoveOverwrite(ctx, invoker(guildOwner), acl.UserOverwrite, discord.Snowflake(user), "ping", acl.Everyone),
		acl.ErrNotFound)
}

func TestOwners(t *testing.T) {
	o := acl.NewOwners(1, 0, 2)
	assert.True(t, o.IsOwner(1))
	assert.False(t, o.IsOwner(0))
	assert.Len(t, o.IDs(), 2)

	o.Set(3)
	assert.False(t, o.IsOwner(1))
	assert.True(t, o.IsOwner(3))
}
