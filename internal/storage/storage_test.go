package storage_test

import (
	"context"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strawberry-py/strawberry-go/internal/storage"
)

type key struct {
	module string
	guild  discord.GuildID
	key    string
}

type memoryStore map[key]storage.Record

func (m memoryStore) Get(_ context.Context, module string, guildID discord.GuildID, k string) (storage.Record, bool, error) {
	rec, ok := m[key{module, guildID, k}]
	return rec, ok, nil
}

func (m memoryStore) Put(_ context.Context, rec storage.Record, overwrite bool) (bool, error) {
	k := key{rec.Module, rec.GuildID, rec.Key}
	if _, ok := m[k]; ok && !overwrite {
		return false, nil
	}
	m[k] = rec

	return true, nil
}

func (m memoryStore) Delete(_ context.Context, module string, guildID discord.GuildID, k string) (bool, error) {
	_, ok := m[key{module, guildID, k}]
	delete(m, key{module, guildID, k})

	return ok, nil
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memoryStore{}
	s := storage.New(store)

	require.NoError(t, storage.Set(ctx, s, "fun", 1, "limit", 5))
	require.NoError(t, storage.Set(ctx, s, "fun", 1, "ratio", 0.5))
	require.NoError(t, storage.Set(ctx, s, "fun", 1, "enabled", true))
	require.NoError(t, storage.Set(ctx, s, "fun", storage.Global, "greeting", "hi"))

	limit, err := storage.Get(ctx, s, "fun", 1, "limit", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, limit)

	ratio, err := storage.Get(ctx, s, "fun", 1, "ratio", 0.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ratio, 1e-9)

	enabled, err := storage.Get(ctx, s, "fun", 1, "enabled", false)
	require.NoError(t, err)
	assert.True(t, enabled)

	greeting, err := storage.Get(ctx, s, "fun", storage.Global, "greeting", "")
	require.NoError(t, err)
	assert.Equal(t, "hi", greeting)

	// values are bound to their guild
	other, err := storage.Get(ctx, s, "fun", 2, "limit", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, other)

	typ, err := s.TypeOf(ctx, "fun", 1, "ratio")
	require.NoError(t, err)
	assert.Equal(t, storage.TypeFloat, typ)
}

func TestStorage_Defaults(t *testing.T) {
	ctx := context.Background()
	store := memoryStore{}
	s := storage.New(store)

	got, err := storage.Get(ctx, s, "fun", 1, "missing", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	store[key{"fun", 1, "odd"}] = storage.Record{Module: "fun", GuildID: 1, Key: "odd", Value: "x", Type: "list"}
	got, err = storage.Get(ctx, s, "fun", 1, "odd", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	typ, err := s.TypeOf(ctx, "fun", 1, "missing")
	require.NoError(t, err)
	assert.Empty(t, typ)
}

func TestStorage_LegacyBool(t *testing.T) {
	ctx := context.Background()
	store := memoryStore{
		{"fun", 1, "flag"}: {Module: "fun", GuildID: 1, Key: "flag", Value: "True", Type: storage.TypeBool},
	}
	s := storage.New(store)

	got, err := storage.Get(ctx, s, "fun", 1, "flag", false)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestStorage_InvalidValue(t *testing.T) {
	ctx := context.Background()
	store := memoryStore{
		{"fun", 1, "limit"}: {Module: "fun", GuildID: 1, Key: "limit", Value: "many", Type: storage.TypeInt},
	}
	s := storage.New(store)

	got, err := storage.Get(ctx, s, "fun", 1, "limit", 3)
	assert.ErrorIs(t, err, storage.ErrInvalidValue)
	assert.Equal(t, 3, got)
}

func TestStorage_SetIfMissingAndUnset(t *testing.T) {
	ctx := context.Background()
	s := storage.New(memoryStore{})

	ok, err := storage.SetIfMissing(ctx, s, "fun", 1, "limit", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = storage.SetIfMissing(ctx, s, "fun", 1, "limit", 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := storage.Get(ctx, s, "fun", 1, "limit", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	exists, err := s.Exists(ctx, "fun", 1, "limit")
	require.NoError(t, err)
	assert.True(t, exists)

	removed, err := s.Unset(ctx, "fun", 1, "limit")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Unset(ctx, "fun", 1, "limit")
	require.NoError(t, err)
	assert.False(t, removed)
}
