package commands

import (
	"strconv"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
)

// Directory resolves names of guild objects. It is satisfied by
// *state.State.
type Directory interface {
	Role(guildID discord.GuildID, roleID discord.RoleID) (*discord.Role, error)
	Channel(id discord.ChannelID) (*discord.Channel, error)
}

func roleName(dir Directory, guildID discord.GuildID, roleID discord.RoleID) string {
	if dir != nil {
		if role, err := dir.Role(guildID, roleID); err == nil {
			return role.Name
		}
	}

	return strconv.FormatUint(uint64(roleID), 10)
}

func channelName(dir Directory, channelID discord.ChannelID) string {
	if dir != nil {
		if ch, err := dir.Channel(channelID); err == nil {
			return "#" + ch.Name
		}
	}

	return "#" + strconv.FormatUint(uint64(channelID), 10)
}

func stringOption(name, description string, required bool, choices ...string) *discord.StringOption {
	o := &discord.StringOption{
		OptionName:  name,
		Description: description,
		Required:    required,
	}
	for _, c := range choices {
		o.Choices = append(o.Choices, discord.StringChoice{Name: c, Value: c})
	}

	return o
}

func boolOption(name, description string) *discord.BooleanOption {
	return &discord.BooleanOption{OptionName: name, Description: description, Required: true}
}

func roleOption(name, description string) *discord.RoleOption {
	return &discord.RoleOption{OptionName: name, Description: description, Required: true}
}

func userOption(name, description string) *discord.UserOption {
	return &discord.UserOption{OptionName: name, Description: description, Required: true}
}

func channelOption(name, description string) *discord.ChannelOption {
	return &discord.ChannelOption{
		OptionName:   name,
		Description:  description,
		Required:     true,
		ChannelTypes: []discord.ChannelType{discord.GuildText},
	}
}

func joinNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}

	return strings.Join(quoted, ", ")
}
