package test

import (
	"context"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/mock"
)

// MockPresence is a mock of bot.Presence.
type MockPresence struct {
	mock.Mock
}

// NewMockPresence creates a MockPresence bound to t.
func NewMockPresence(t *testing.T) *MockPresence {
	m := &MockPresence{}
	expect(t, &m.Mock)

	return m
}

func (m *MockPresence) UpdatePresence(ctx context.Context, status discord.Status, activity string) error {
	return m.Called(ctx, status, activity).Error(0)
}

// MockApplications is a mock of bot.Applications.
type MockApplications struct {
	mock.Mock
}

// NewMockApplications creates a MockApplications bound to t.
func NewMockApplications(t *testing.T) *MockApplications {
	m := &MockApplications{}
	expect(t, &m.Mock)

	return m
}

func (m *MockApplications) CurrentApplication() (*discord.Application, error) {
	args := m.Called()
	app, _ := args.Get(0).(*discord.Application)

	return app, args.Error(1)
}

// MockProber is a mock of commands.Prober.
type MockProber struct {
	mock.Mock
}

// NewMockProber creates a MockProber bound to t.
func NewMockProber(t *testing.T) *MockProber {
	m := &MockProber{}
	expect(t, &m.Mock)

	return m
}

func (m *MockProber) Me() (*discord.User, error) {
	args := m.Called()
	u, _ := args.Get(0).(*discord.User)

	return u, args.Error(1)
}
