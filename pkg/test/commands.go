package test

import (
	"testing"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/mock"

	"github.com/strawberry-py/strawberry-go/internal/commands"
)

// MockCommand is a mock of commands.Command.
type MockCommand struct {
	mock.Mock
}

// NewMockCommand creates a MockCommand bound to t.
func NewMockCommand(t *testing.T) *MockCommand {
	m := &MockCommand{}
	expect(t, &m.Mock)

	return m
}

func (m *MockCommand) Name() string        { return m.Called().String(0) }
func (m *MockCommand) Description() string { return m.Called().String(0) }
func (m *MockCommand) Module() string      { return m.Called().String(0) }

func (m *MockCommand) Routes() []commands.Route {
	routes, _ := m.Called().Get(0).([]commands.Route)
	return routes
}

// MockResponder is a mock of commands.Responder.
type MockResponder struct {
	mock.Mock
}

// NewMockResponder creates a MockResponder bound to t.
func NewMockResponder(t *testing.T) *MockResponder {
	m := &MockResponder{}
	expect(t, &m.Mock)

	return m
}

func (m *MockResponder) RespondInteraction(id discord.InteractionID, token string, resp api.InteractionResponse) error {
	return m.Called(id, token, resp).Error(0)
}

func (m *MockResponder) EditInteractionResponse(appID discord.AppID, token string, data api.EditInteractionResponseData) (*discord.Message, error) {
	args := m.Called(appID, token, data)
	msg, _ := args.Get(0).(*discord.Message)

	return msg, args.Error(1)
}

func (m *MockResponder) FollowUpInteraction(appID discord.AppID, token string, data api.InteractionResponseData) (*discord.Message, error) {
	args := m.Called(appID, token, data)
	msg, _ := args.Get(0).(*discord.Message)

	return msg, args.Error(1)
}

// MockRegistrar is a mock of commands.Registrar.
type MockRegistrar struct {
	mock.Mock
}

// NewMockRegistrar creates a MockRegistrar bound to t.
func NewMockRegistrar(t *testing.T) *MockRegistrar {
	m := &MockRegistrar{}
	expect(t, &m.Mock)

	return m
}

func (m *MockRegistrar) BulkOverwriteCommands(appID discord.AppID, cmds []api.CreateCommandData) ([]discord.Command, error) {
	args := m.Called(appID, cmds)
	registered, _ := args.Get(0).([]discord.Command)

	return registered, args.Error(1)
}

func (m *MockRegistrar) BulkOverwriteGuildCommands(appID discord.AppID, guildID discord.GuildID, cmds []api.CreateCommandData) ([]discord.Command, error) {
	args := m.Called(appID, guildID, cmds)
	registered, _ := args.Get(0).([]discord.Command)

	return registered, args.Error(1)
}
