package commands

import (
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
)

// Embed colors.
const (
	ColorSuccess discord.Color = 0x2ecc71
	ColorError   discord.Color = 0xe74c3c
)

// NewEmbed creates an embed signed with the invoker's name.
func NewEmbed(req *Request, title, description string) discord.Embed {
	return newEmbed(req, title, description, ColorSuccess)
}

// NewErrorEmbed creates a red embed signed with the invoker's name.
func NewErrorEmbed(req *Request, title, description string) discord.Embed {
	return newEmbed(req, title, description, ColorError)
}

func newEmbed(req *Request, title, description string, color discord.Color) discord.Embed {
	footer := "📩"
	if req != nil && req.Actor.Name != "" {
		footer += " " + req.Actor.Name
	}

	return discord.Embed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer:      &discord.EmbedFooter{Text: footer},
		Timestamp:   discord.NewTimestamp(time.Now()),
	}
}
