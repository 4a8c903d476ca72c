package test

import (
	"context"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/mock"
)

// MockLanguageStore is a mock of i18n.Store.
type MockLanguageStore struct {
	mock.Mock
}

// NewMockLanguageStore creates a MockLanguageStore bound to t.
func NewMockLanguageStore(t *testing.T) *MockLanguageStore {
	m := &MockLanguageStore{}
	expect(t, &m.Mock)

	return m
}

func (m *MockLanguageStore) GuildLanguage(ctx context.Context, guildID discord.GuildID) (string, error) {
	args := m.Called(ctx, guildID)
	return args.String(0), args.Error(1)
}

func (m *MockLanguageStore) SetGuildLanguage(ctx context.Context, guildID discord.GuildID, lang string) error {
	return m.Called(ctx, guildID, lang).Error(0)
}

func (m *MockLanguageStore) UnsetGuildLanguage(ctx context.Context, guildID discord.GuildID) (bool, error) {
	args := m.Called(ctx, guildID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLanguageStore) MemberLanguage(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (string, error) {
	args := m.Called(ctx, guildID, userID)
	return args.String(0), args.Error(1)
}

func (m *MockLanguageStore) SetMemberLanguage(ctx context.Context, guildID discord.GuildID, userID discord.UserID, lang string) error {
	return m.Called(ctx, guildID, userID, lang).Error(0)
}

func (m *MockLanguageStore) UnsetMemberLanguage(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (bool, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Bool(0), args.Error(1)
}

// StaticLanguage is an i18n.GlobalLanguage returning a fixed value.
type StaticLanguage string

// Language implements i18n.GlobalLanguage.
func (s StaticLanguage) Language() string { return string(s) }
