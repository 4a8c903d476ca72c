package test

import (
	"context"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/mock"

	"github.com/strawberry-py/strawberry-go/internal/eventlog"
)

// MockSubscriptionStore is a mock of eventlog.Store.
type MockSubscriptionStore struct {
	mock.Mock
}

// NewMockSubscriptionStore creates a MockSubscriptionStore bound to t.
func NewMockSubscriptionStore(t *testing.T) *MockSubscriptionStore {
	m := &MockSubscriptionStore{}
	expect(t, &m.Mock)

	return m
}

func (m *MockSubscriptionStore) Subscriptions(ctx context.Context, scope eventlog.Scope, level eventlog.Level, module string) ([]eventlog.Subscription, error) {
	args := m.Called(ctx, scope, level, module)
	subs, _ := args.Get(0).([]eventlog.Subscription)

	return subs, args.Error(1)
}

func (m *MockSubscriptionStore) GuildSubscriptions(ctx context.Context, guildID discord.GuildID) ([]eventlog.Subscription, error) {
	args := m.Called(ctx, guildID)
	subs, _ := args.Get(0).([]eventlog.Subscription)

	return subs, args.Error(1)
}

func (m *MockSubscriptionStore) AddSubscription(ctx context.Context, sub eventlog.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionStore) RemoveSubscription(ctx context.Context, scope eventlog.Scope, guildID discord.GuildID, module string) (bool, error) {
	args := m.Called(ctx, scope, guildID, module)
	return args.Bool(0), args.Error(1)
}

// MockSender is a mock of eventlog.Sender.
type MockSender struct {
	mock.Mock
}

// NewMockSender creates a MockSender bound to t.
func NewMockSender(t *testing.T) *MockSender {
	m := &MockSender{}
	expect(t, &m.Mock)

	return m
}

func (m *MockSender) SendMessage(channelID discord.ChannelID, content string, embeds ...discord.Embed) (*discord.Message, error) {
	args := m.Called(channelID, content)
	msg, _ := args.Get(0).(*discord.Message)

	return msg, args.Error(1)
}
