package eventlog

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ErrUnknownLevel is returned by ParseLevel for names it does not know.
var ErrUnknownLevel = errors.New("unknown log level")

// Level is the severity of an event. Values match the numbers stored in
// subscriptions.
type Level int

const (
	LevelDebug    Level = 10
	LevelInfo     Level = 20
	LevelWarning  Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50
	LevelNone     Level = 100
)

var levelNames = map[Level]string{
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
	LevelNone:     "NONE",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}

	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel parses a level name, ignoring case.
func ParseLevel(name string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for level, n := range levelNames {
		if n == upper {
			return level, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// LevelNames lists the level names from the least to the most severe.
func LevelNames() []string {
	return []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL", "NONE"}
}

func (l Level) zapLevel() zapcore.Level {
	switch {
	case l <= LevelDebug:
		return zapcore.DebugLevel
	case l <= LevelInfo:
		return zapcore.InfoLevel
	case l <= LevelWarning:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Scope separates bot-wide events from events visible in one guild only.
type Scope int

const (
	ScopeBot Scope = iota
	ScopeGuild
)

func (s Scope) String() string {
	if s == ScopeGuild {
		return "guild"
	}

	return "bot"
}

// ParseScope parses "bot" or "guild".
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(name) {
	case "bot":
		return ScopeBot, nil
	case "guild":
		return ScopeGuild, nil
	}

	return 0, fmt.Errorf("unknown log scope %q", name)
}
