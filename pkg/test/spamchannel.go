package test

import (
	"context"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/mock"

	"github.com/strawberry-py/strawberry-go/internal/spamchannel"
)

// MockSpamChannelStore is a mock of spamchannel.Store.
type MockSpamChannelStore struct {
	mock.Mock
}

// NewMockSpamChannelStore creates a MockSpamChannelStore bound to t.
func NewMockSpamChannelStore(t *testing.T) *MockSpamChannelStore {
	m := &MockSpamChannelStore{}
	expect(t, &m.Mock)

	return m
}

func (m *MockSpamChannelStore) Add(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) error {
	return m.Called(ctx, guildID, channelID).Error(0)
}

func (m *MockSpamChannelStore) Get(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (spamchannel.Channel, bool, error) {
	args := m.Called(ctx, guildID, channelID)
	return args.Get(0).(spamchannel.Channel), args.Bool(1), args.Error(2)
}

func (m *MockSpamChannelStore) List(ctx context.Context, guildID discord.GuildID) ([]spamchannel.Channel, error) {
	args := m.Called(ctx, guildID)
	channels, _ := args.Get(0).([]spamchannel.Channel)

	return channels, args.Error(1)
}

func (m *MockSpamChannelStore) SetPrimary(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) error {
	return m.Called(ctx, guildID, channelID).Error(0)
}

func (m *MockSpamChannelStore) Remove(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (bool, error) {
	args := m.Called(ctx, guildID, channelID)
	return args.Bool(0), args.Error(1)
}
