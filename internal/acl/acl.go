// Package acl decides who may run which command.
//
// Every command has a built-in level. A guild can replace it with a default,
// and single users, channels or roles can be allowed or denied through
// overwrites. Members get their level from the highest mapped role they hold.
package acl

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	memberLevelCacheSize = 4096
	memberLevelTTL       = 10 * time.Second
)

// Invoker describes who runs a command and where.
type Invoker struct {
	GuildID      discord.GuildID
	ChannelID    discord.ChannelID
	UserID       discord.UserID
	GuildOwnerID discord.UserID
	// RoleIDs are ordered from the highest role down. The @everyone role,
	// whose ID equals the guild ID, comes last.
	RoleIDs []discord.RoleID
}

type memberKey struct {
	guild discord.GuildID
	user  discord.UserID
}

// Service evaluates access and manages the access rules.
type Service struct {
	store  Store
	owners *Owners
	logger *zap.Logger

	levels *expirable.LRU[memberKey, Level]
}

// NewService creates a Service.
func NewService(store Store, owners *Owners, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		owners: owners,
		logger: logger.Named("acl"),
		levels: expirable.NewLRU[memberKey, Level](memberLevelCacheSize, nil, memberLevelTTL),
	}
}

// Owners returns the bot owner set.
func (s *Service) Owners() *Owners {
	return s.owners
}

// MemberLevel maps the invoker to a level. Results are cached briefly.
func (s *Service) MemberLevel(ctx context.Context, inv Invoker) (Level, error) {
	if s.owners.IsOwner(inv.UserID) {
		return BotOwner, nil
	}
	if inv.GuildOwnerID.IsValid() && inv.UserID == inv.GuildOwnerID {
		return GuildOwner, nil
	}
	if !inv.GuildID.IsValid() {
		return Everyone, nil
	}

	key := memberKey{guild: inv.GuildID, user: inv.UserID}
	if level, ok := s.levels.Get(key); ok {
		return level, nil
	}

	level := Everyone
	for _, roleID := range inv.RoleIDs {
		mapped, ok, err := s.store.Mapping(ctx, inv.GuildID, roleID)
		if err != nil {
			return Everyone, fmt.Errorf("failed to load role mapping: %w", err)
		}
		if ok {
			level = mapped
			break
		}
	}
	s.levels.Add(key, level)

	return level, nil
}

// Check returns nil when inv may run command whose built-in level is
// required. Outside a guild only BOT_OWNER commands are checked. Denials
// match ErrAccessDenied.
func (s *Service) Check(ctx context.Context, command string, required Level, inv Invoker) error {
	log := s.logger.With(zap.String("command", command), zap.Stringer("userID", inv.UserID))

	if !inv.GuildID.IsValid() {
		if required == BotOwner && !s.owners.IsOwner(inv.UserID) {
			return &InsufficientLevelError{Required: BotOwner, Actual: Everyone}
		}
		log.Debug("Non-guild context is allowed")
		return nil
	}

	memberLevel, err := s.MemberLevel(ctx, inv)
	if err != nil {
		return err
	}
	if memberLevel == BotOwner {
		log.Debug("Bot owner is always allowed")
		return nil
	}

	if custom, ok, err := s.store.Default(ctx, inv.GuildID, command); err != nil {
		return err
	} else if ok {
		required = custom
	}

	allow, found, err := s.store.Overwrite(ctx, UserOverwrite, inv.GuildID, discord.Snowflake(inv.UserID), command)
	if err != nil {
		return err
	}
	if found {
		log.Debug("User overwrite applied", zap.Bool("allow", allow))
		return overwriteResult(allow, UserOverwrite, discord.Snowflake(inv.UserID))
	}

	if inv.ChannelID.IsValid() {
		allow, found, err = s.store.Overwrite(ctx, ChannelOverwrite, inv.GuildID, discord.Snowflake(inv.ChannelID), command)
		if err != nil {
			return err
		}
		if found {
			log.Debug("Channel overwrite applied", zap.Bool("allow", allow))
			return overwriteResult(allow, ChannelOverwrite, discord.Snowflake(inv.ChannelID))
		}
	}

	// lowest role first
	for i := len(inv.RoleIDs) - 1; i >= 0; i-- {
		roleID := discord.Snowflake(inv.RoleIDs[i])
		allow, found, err = s.store.Overwrite(ctx, RoleOverwrite, inv.GuildID, roleID, command)
		if err != nil {
			return err
		}
		if found {
			log.Debug("Role overwrite applied", zap.Stringer("roleID", roleID), zap.Bool("allow", allow))
			return overwriteResult(allow, RoleOverwrite, roleID)
		}
	}

	if memberLevel >= required {
		return nil
	}

	log.Debug("Member level too low",
		zap.Stringer("required", required),
		zap.Stringer("actual", memberLevel))

	return &InsufficientLevelError{Required: required, Actual: memberLevel}
}

func overwriteResult(allow bool, kind OverwriteKind, target discord.Snowflake) error {
	if allow {
		return nil
	}

	return &NegativeOverwriteError{Kind: kind, TargetID: target}
}

// EffectiveLevel returns the guild default for command, or builtin.
func (s *Service) EffectiveLevel(ctx context.Context, guildID discord.GuildID, command string, builtin Level) (Level, error) {
	if !guildID.IsValid() {
		return builtin, nil
	}

	custom, ok, err := s.store.Default(ctx, guildID, command)
	if err != nil {
		return builtin, err
	}
	if ok {
		return custom, nil
	}

	return builtin, nil
}

// CanInvoke reports whether Check passes. Lookup failures count as denial.
func (s *Service) CanInvoke(ctx context.Context, command string, builtin Level, inv Invoker) bool {
	err := s.Check(ctx, command, builtin, inv)
	if err != nil && !isDenial(err) {
		s.logger.Warn("Access check failed", zap.String("command", command), zap.Error(err))
	}

	return err == nil
}

func isDenial(err error) bool {
	switch err.(type) {
	case *InsufficientLevelError, *NegativeOverwriteError:
		return true
	}

	return false
}

// AddMapping maps role to level. Owner levels cannot be mapped and the
// caller must stand above level.
func (s *Service) AddMapping(ctx context.Context, caller Invoker, roleID discord.RoleID, level Level) error {
	if level == GuildOwner || level == BotOwner {
		return ErrOwnerLevel
	}

	callerLevel, err := s.MemberLevel(ctx, caller)
	if err != nil {
		return err
	}
	if level >= callerLevel {
		return &LevelTooHighError{Level: level, Caller: callerLevel}
	}

	if err := s.store.AddMapping(ctx, Mapping{GuildID: caller.GuildID, RoleID: roleID, Level: level}); err != nil {
		return err
	}
	s.levels.Purge()

	return nil
}

// RemoveMapping removes the mapping of role. The caller must stand above
// the mapped level.
func (s *Service) RemoveMapping(ctx context.Context, caller Invoker, roleID discord.RoleID) error {
	level, ok, err := s.store.Mapping(ctx, caller.GuildID, roleID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	callerLevel, err := s.MemberLevel(ctx, caller)
	if err != nil {
		return err
	}
	if level >= callerLevel {
		return &LevelTooHighError{Level: level, Caller: callerLevel}
	}

	if _, err := s.store.RemoveMapping(ctx, caller.GuildID, roleID); err != nil {
		return err
	}
	s.levels.Purge()

	return nil
}

// Mappings lists the role mappings of a guild.
func (s *Service) Mappings(ctx context.Context, guildID discord.GuildID) ([]Mapping, error) {
	return s.store.Mappings(ctx, guildID)
}

// AddDefault overrides the level of command in the caller's guild. The caller
// must be able to run the command and its current level must not exceed
// the caller's.
func (s *Service) AddDefault(ctx context.Context, caller Invoker, command string, builtin, level Level) error {
	if err := s.requireManageable(ctx, caller, command, builtin); err != nil {
		return err
	}

	return s.store.AddDefault(ctx, Default{GuildID: caller.GuildID, Command: command, Level: level})
}

// RemoveDefault drops the custom level of command.
func (s *Service) RemoveDefault(ctx context.Context, caller Invoker, command string, builtin Level) error {
	if err := s.requireManageable(ctx, caller, command, builtin); err != nil {
		return err
	}

	removed, err := s.store.RemoveDefault(ctx, caller.GuildID, command)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}

	return nil
}

// Defaults lists the custom levels of a guild.
func (s *Service) Defaults(ctx context.Context, guildID discord.GuildID) ([]Default, error) {
	return s.store.Defaults(ctx, guildID)
}

// AddOverwrite stores an overwrite for a command the caller can run.
func (s *Service) AddOverwrite(ctx context.Context, caller Invoker, o Overwrite, builtin Level) error {
	if !s.CanInvoke(ctx, o.Command, builtin, caller) {
		return fmt.Errorf("%w: cannot manage %s", ErrAccessDenied, o.Command)
	}
	o.GuildID = caller.GuildID

	return s.store.AddOverwrite(ctx, o)
}

// RemoveOverwrite removes an overwrite for a command the caller can run.
func (s *Service) RemoveOverwrite(ctx context.Context, caller Invoker, kind OverwriteKind, targetID discord.Snowflake, command string, builtin Level) error {
	if !s.CanInvoke(ctx, command, builtin, caller) {
		return fmt.Errorf("%w: cannot manage %s", ErrAccessDenied, command)
	}

	removed, err := s.store.RemoveOverwrite(ctx, kind, caller.GuildID, targetID, command)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}

	return nil
}

// Overwrites lists overwrites of one kind, or all kinds when kind is empty.
func (s *Service) Overwrites(ctx context.Context, guildID discord.GuildID, kind OverwriteKind) ([]Overwrite, error) {
	return s.store.Overwrites(ctx, kind, guildID)
}

func (s *Service) requireManageable(ctx context.Context, caller Invoker, command string, builtin Level) error {
	if !s.CanInvoke(ctx, command, builtin, caller) {
		return fmt.Errorf("%w: cannot manage %s", ErrAccessDenied, command)
	}

	current, err := s.EffectiveLevel(ctx, caller.GuildID, command, builtin)
	if err != nil {
		return err
	}
	callerLevel, err := s.MemberLevel(ctx, caller)
	if err != nil {
		return err
	}
	if current > callerLevel {
		return &LevelTooHighError{Level: current, Caller: callerLevel}
	}

	return nil
}
