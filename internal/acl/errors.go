package acl

import (
	"errors"
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
)

var (
	// ErrAccessDenied is matched by every check failure.
	ErrAccessDenied = errors.New("access denied")
	// ErrUnknownLevel is returned by ParseLevel.
	ErrUnknownLevel = errors.New("unknown level")
	// ErrExists is returned when adding a record whose key is taken.
	ErrExists = errors.New("already exists")
	// ErrNotFound is returned when removing a record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrOwnerLevel is returned when mapping a role to an owner level.
	ErrOwnerLevel = errors.New("owner levels cannot be mapped")
)

// OverwriteKind tells which target an overwrite applies to.
type OverwriteKind string

// Overwrite kinds.
const (
	UserOverwrite    OverwriteKind = "user"
	ChannelOverwrite OverwriteKind = "channel"
	RoleOverwrite    OverwriteKind = "role"
)

// NegativeOverwriteError is returned when an overwrite denies the command.
type NegativeOverwriteError struct {
	Kind OverwriteKind
	// TargetID is the user, channel or role the overwrite is bound to.
	TargetID discord.Snowflake
}

func (e *NegativeOverwriteError) Error() string {
	return fmt.Sprintf("negative %s overwrite for %s", e.Kind, e.TargetID)
}

// Is makes the error match ErrAccessDenied.
func (e *NegativeOverwriteError) Is(target error) bool {
	return target == ErrAccessDenied
}

// InsufficientLevelError is returned when the member level is too low.
type InsufficientLevelError struct {
	Required Level
	Actual   Level
}

func (e *InsufficientLevelError) Error() string {
	return fmt.Sprintf("insufficient level: %s required, %s found", e.Required, e.Actual)
}

// Is makes the error match ErrAccessDenied.
func (e *InsufficientLevelError) Is(target error) bool {
	return target == ErrAccessDenied
}

// LevelTooHighError is returned when a caller manages a level that is not
// below their own.
type LevelTooHighError struct {
	Level  Level
	Caller Level
}

func (e *LevelTooHighError) Error() string {
	return fmt.Sprintf("level %s is not below caller level %s", e.Level, e.Caller)
}
