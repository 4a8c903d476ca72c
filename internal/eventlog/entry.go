package eventlog

import (
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const fileTimeLayout = "2006-01-02T15:04:05.0"

// Actor is the user who caused an event. The zero value means none.
type Actor struct {
	ID   discord.UserID
	Name string
}

// Source is where an event happened. Zero fields are unknown.
type Source struct {
	GuildID     discord.GuildID
	GuildName   string
	ChannelID   discord.ChannelID
	ChannelName string
}

// Entry is one logged event.
type Entry struct {
	Timestamp time.Time
	Scope     Scope
	Level     Level
	Actor     Actor
	Source    Source
	// Module is the command module the event belongs to, "" for the core.
	Module  string
	Message string
	Content string
	Err     error
}

// String renders the entry with the guild name, as printed to the console.
func (e Entry) String() string {
	return e.format(true)
}

// FormatConsole prefixes String with the timestamp.
func (e Entry) FormatConsole() string {
	return e.Timestamp.Format("2006-01-02 15:04:05") + " " + e.format(true)
}

// FormatDiscord renders the entry for a log channel. Guild events are only
// sent inside their guild, so the guild name is left out.
func (e Entry) FormatDiscord() string {
	return e.format(e.Scope == ScopeBot)
}

func (e Entry) format(extended bool) string {
	stubs := []string{e.Level.String()}
	if e.Actor.ID.IsValid() {
		stubs = append(stubs, e.Actor.Name, "("+e.Actor.ID.String()+")")
	}
	if e.Source.ChannelName != "" {
		stubs = append(stubs, "#"+e.Source.ChannelName)
	}
	if extended && e.Source.GuildID.IsValid() {
		stubs = append(stubs, e.Source.GuildName)
	}

	message := strings.Join(stubs, " ") + ": " + e.Message
	if e.Err != nil {
		message += "\n" + e.Err.Error()
	}

	return message
}

var fileEncoder = zapcore.NewJSONEncoder(zapcore.EncoderConfig{
	TimeKey: "timestamp",
	EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(fileTimeLayout))
	},
	EncodeDuration: zapcore.StringDurationEncoder,
})

// FormatFile renders the entry as one JSON object without a trailing newline.
func (e Entry) FormatFile() (string, error) {
	buf, err := fileEncoder.Clone().EncodeEntry(zapcore.Entry{Time: e.Timestamp}, e.fileFields())
	if err != nil {
		return "", err
	}
	defer buf.Free()

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (e Entry) fileFields() []zapcore.Field {
	fields := []zapcore.Field{
		zap.Stringer("scope", e.Scope),
		zap.String("module", e.Module),
		zap.Stringer("levelstr", e.Level),
	}
	if e.Actor.ID.IsValid() {
		fields = append(fields, zap.Uint64("actor_id", uint64(e.Actor.ID)))
	}
	if e.Source.ChannelID.IsValid() {
		fields = append(fields, zap.Uint64("channel_id", uint64(e.Source.ChannelID)))
	}
	if e.Source.GuildID.IsValid() {
		fields = append(fields, zap.Uint64("guild_id", uint64(e.Source.GuildID)))
	}
	fields = append(fields, zap.String("message", e.Message))
	if e.Content != "" {
		fields = append(fields, zap.String("content", e.Content))
	}
	if e.Err != nil {
		fields = append(fields, zap.String("error", e.Err.Error()))
	}

	return fields
}

// zapFields describes the entry for the process logger.
func (e Entry) zapFields() []zap.Field {
	fields := []zap.Field{
		zap.Stringer("scope", e.Scope),
		zap.Stringer("level", e.Level),
	}
	if e.Module != "" {
		fields = append(fields, zap.String("module", e.Module))
	}
	if e.Actor.ID.IsValid() {
		fields = append(fields, zap.Uint64("actor_id", uint64(e.Actor.ID)))
	}
	if e.Source.ChannelID.IsValid() {
		fields = append(fields, zap.Uint64("channel_id", uint64(e.Source.ChannelID)))
	}
	if e.Source.GuildID.IsValid() {
		fields = append(fields, zap.Uint64("guild_id", uint64(e.Source.GuildID)))
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}

	return fields
}
