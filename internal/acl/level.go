package acl

import (
	"fmt"
	"strings"
)

// Level is an access control level. Higher levels include lower ones.
type Level int

// Access control levels.
const (
	Everyone   Level = 0
	Member     Level = 1
	Submod     Level = 2
	Mod        Level = 3
	GuildOwner Level = 4
	BotOwner   Level = 5
)

var levelNames = map[Level]string{
	Everyone:   "EVERYONE",
	Member:     "MEMBER",
	Submod:     "SUBMOD",
	Mod:        "MOD",
	GuildOwner: "GUILD_OWNER",
	BotOwner:   "BOT_OWNER",
}

// String returns the level name, e.g. "GUILD_OWNER".
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}

	return fmt.Sprintf("Level(%d)", int(l))
}

// Levels returns every level from lowest to highest.
func Levels() []Level {
	return []Level{Everyone, Member, Submod, Mod, GuildOwner, BotOwner}
}

// ParseLevel parses a level name, case insensitive.
func ParseLevel(name string) (Level, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// LevelNames returns the names of all levels, lowest first.
func LevelNames() []string {
	names := make([]string, 0, len(levelNames))
	for _, l := range Levels() {
		names = append(names, l.String())
	}

	return names
}
