package acl

import (
	"context"
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/jackc/pgconn"

	"github.com/strawberry-py/strawberry-go/internal/database"
)

// Default replaces the built-in level of a command in one guild.
type Default struct {
	GuildID discord.GuildID
	Command string
	Level   Level
}

// Overwrite allows or denies a command to one user, channel or role.
type Overwrite struct {
	Kind     OverwriteKind
	GuildID  discord.GuildID
	TargetID discord.Snowflake
	Command  string
	Allow    bool
}

// Mapping assigns a level to the members of a role.
type Mapping struct {
	GuildID discord.GuildID
	RoleID  discord.RoleID
	Level   Level
}

// Store persists defaults, overwrites and mappings. Add methods return
// ErrExists when the key is taken; Remove methods report whether a row was
// deleted.
type Store interface {
	Default(ctx context.Context, guildID discord.GuildID, command string) (Level, bool, error)
	Defaults(ctx context.Context, guildID discord.GuildID) ([]Default, error)
	AddDefault(ctx context.Context, d Default) error
	RemoveDefault(ctx context.Context, guildID discord.GuildID, command string) (bool, error)

	Overwrite(ctx context.Context, kind OverwriteKind, guildID discord.GuildID, targetID discord.Snowflake, command string) (allow bool, found bool, err error)
	Overwrites(ctx context.Context, kind OverwriteKind, guildID discord.GuildID) ([]Overwrite, error)
	AddOverwrite(ctx context.Context, o Overwrite) error
	RemoveOverwrite(ctx context.Context, kind OverwriteKind, guildID discord.GuildID, targetID discord.Snowflake, command string) (bool, error)

	Mapping(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) (Level, bool, error)
	Mappings(ctx context.Context, guildID discord.GuildID) ([]Mapping, error)
	AddMapping(ctx context.Context, m Mapping) error
	RemoveMapping(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) (bool, error)
}

// Schema returns the access control tables.
func Schema() database.Schema {
	return database.Schema{
		Component: "acl",
		Version:   1,
		Tables:    []string{"pie_acl_acdefault", "pie_acl_role_overwrite", "pie_acl_user_overwrite", "pie_acl_channel_overwrite", "pie_acl_aclevel_mapping"},
		Create: []string{
			`CREATE TABLE IF NOT EXISTS pie_acl_acdefault (
				idx SERIAL PRIMARY KEY,
				guild_id BIGINT NOT NULL,
				command TEXT NOT NULL,
				level TEXT NOT NULL,
				UNIQUE (guild_id, command)
			)`,
			`CREATE TABLE IF NOT EXISTS pie_acl_role_overwrite (
				idx SERIAL PRIMARY KEY,
				guild_id BIGINT NOT NULL,
				role_id BIGINT NOT NULL,
				command TEXT NOT NULL,
				allow BOOLEAN NOT NULL,
				UNIQUE (guild_id, role_id, command)
			)`,
			`CREATE TABLE IF NOT EXISTS pie_acl_user_overwrite (
				idx SERIAL PRIMARY KEY,
				guild_id BIGINT NOT NULL,
				user_id BIGINT NOT NULL,
				command TEXT NOT NULL,
				allow BOOLEAN NOT NULL,
				UNIQUE (guild_id, user_id, command)
			)`,
			`CREATE TABLE IF NOT EXISTS pie_acl_channel_overwrite (
				idx SERIAL PRIMARY KEY,
				guild_id BIGINT NOT NULL,
				channel_id BIGINT NOT NULL,
				command TEXT NOT NULL,
				allow BOOLEAN NOT NULL,
				UNIQUE (guild_id, channel_id, command)
			)`,
			`CREATE TABLE IF NOT EXISTS pie_acl_aclevel_mapping (
				idx SERIAL PRIMARY KEY,
				guild_id BIGINT NOT NULL,
				role_id BIGINT NOT NULL,
				level TEXT NOT NULL,
				UNIQUE (guild_id, role_id)
			)`,
		},
	}
}

type overwriteTable struct {
	table  string
	column string
}

var overwriteTables = map[OverwriteKind]overwriteTable{
	UserOverwrite:    {"pie_acl_user_overwrite", "user_id"},
	ChannelOverwrite: {"pie_acl_channel_overwrite", "channel_id"},
	RoleOverwrite:    {"pie_acl_role_overwrite", "role_id"},
}

func tableFor(kind OverwriteKind) (overwriteTable, error) {
	t, ok := overwriteTables[kind]
	if !ok {
		return overwriteTable{}, fmt.Errorf("unknown overwrite kind %q", kind)
	}

	return t, nil
}

type pgStore struct {
	db database.Querier
}

// NewStore returns a PostgreSQL backed Store.
func NewStore(db database.Querier) Store {
	return &pgStore{db: db}
}

func scanLevel(name string) Level {
	level, err := ParseLevel(name)
	if err != nil {
		return Everyone
	}

	return level
}

// inserted maps an empty ON CONFLICT DO NOTHING insert to ErrExists.
func inserted(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}

	return nil
}

func deleted(tag pgconn.CommandTag, err error) (bool, error) {
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (s *pgStore) Default(ctx context.Context, guildID discord.GuildID, command string) (Level, bool, error) {
	var name string
	err := s.db.QueryRow(ctx,
		`SELECT level FROM pie_acl_acdefault WHERE guild_id = $1 AND command = $2`,
		int64(guildID), command,
	).Scan(&name)
	switch {
	case database.IsNoRows(err):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}

	return scanLevel(name), true, nil
}

func (s *pgStore) Defaults(ctx context.Context, guildID discord.GuildID) ([]Default, error) {
	rows, err := s.db.Query(ctx,
		`SELECT command, level FROM pie_acl_acdefault WHERE guild_id = $1 ORDER BY command`,
		int64(guildID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Default
	for rows.Next() {
		d := Default{GuildID: guildID}
		var name string
		if err := rows.Scan(&d.Command, &name); err != nil {
			return nil, err
		}
		d.Level = scanLevel(name)
		out = append(out, d)
	}

	return out, rows.Err()
}

func (s *pgStore) AddDefault(ctx context.Context, d Default) error {
	return inserted(s.db.Exec(ctx,
		`INSERT INTO pie_acl_acdefault (guild_id, command, level) VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		int64(d.GuildID), d.Command, d.Level.String(),
	))
}

func (s *pgStore) RemoveDefault(ctx context.Context, guildID discord.GuildID, command string) (bool, error) {
	return deleted(s.db.Exec(ctx,
		`DELETE FROM pie_acl_acdefault WHERE guild_id = $1 AND command = $2`,
		int64(guildID), command,
	))
}

func (s *pgStore) Overwrite(ctx context.Context, kind OverwriteKind, guildID discord.GuildID, targetID discord.Snowflake, command string) (bool, bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, false, err
	}

	var allow bool
	err = s.db.QueryRow(ctx,
		`SELECT allow FROM `+t.table+` WHERE guild_id = $1 AND `+t.column+` = $2 AND command = $3`,
		int64(guildID), int64(targetID), command,
	).Scan(&allow)
	switch {
	case database.IsNoRows(err):
		return false, false, nil
	case err != nil:
		return false, false, err
	}

	return allow, true, nil
}

func (s *pgStore) Overwrites(ctx context.Context, kind OverwriteKind, guildID discord.GuildID) ([]Overwrite, error) {
	if kind == "" {
		var all []Overwrite
		for _, k := range []OverwriteKind{RoleOverwrite, UserOverwrite, ChannelOverwrite} {
			part, err := s.Overwrites(ctx, k, guildID)
			if err != nil {
				return nil, err
			}
			all = append(all, part...)
		}
		return all, nil
	}

	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+t.column+`, command, allow FROM `+t.table+` WHERE guild_id = $1 ORDER BY command`,
		int64(guildID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Overwrite
	for rows.Next() {
		o := Overwrite{Kind: kind, GuildID: guildID}
		var target int64
		if err := rows.Scan(&target, &o.Command, &o.Allow); err != nil {
			return nil, err
		}
		o.TargetID = discord.Snowflake(target)
		out = append(out, o)
	}

	return out, rows.Err()
}

func (s *pgStore) AddOverwrite(ctx context.Context, o Overwrite) error {
	t, err := tableFor(o.Kind)
	if err != nil {
		return err
	}

	return inserted(s.db.Exec(ctx,
		`INSERT INTO `+t.table+` (guild_id, `+t.column+`, command, allow) VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`,
		int64(o.GuildID), int64(o.TargetID), o.Command, o.Allow,
	))
}

func (s *pgStore) RemoveOverwrite(ctx context.Context, kind OverwriteKind, guildID discord.GuildID, targetID discord.Snowflake, command string) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	return deleted(s.db.Exec(ctx,
		`DELETE FROM `+t.table+` WHERE guild_id = $1 AND `+t.column+` = $2 AND command = $3`,
		int64(guildID), int64(targetID), command,
	))
}

func (s *pgStore) Mapping(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) (Level, bool, error) {
	var name string
	err := s.db.QueryRow(ctx,
		`SELECT level FROM pie_acl_aclevel_mapping WHERE guild_id = $1 AND role_id = $2`,
		int64(guildID), int64(roleID),
	).Scan(&name)
	switch {
	case database.IsNoRows(err):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}

	return scanLevel(name), true, nil
}

func (s *pgStore) Mappings(ctx context.Context, guildID discord.GuildID) ([]Mapping, error) {
	rows, err := s.db.Query(ctx,
		`SELECT role_id, level FROM pie_acl_aclevel_mapping WHERE guild_id = $1 ORDER BY idx`,
		int64(guildID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Mapping
	for rows.Next() {
		m := Mapping{GuildID: guildID}
		var role int64
		var name string
		if err := rows.Scan(&role, &name); err != nil {
			return nil, err
		}
		m.RoleID = discord.RoleID(role)
		m.Level = scanLevel(name)
		out = append(out, m)
	}

	return out, rows.Err()
}

func (s *pgStore) AddMapping(ctx context.Context, m Mapping) error {
	return inserted(s.db.Exec(ctx,
		`INSERT INTO pie_acl_aclevel_mapping (guild_id, role_id, level) VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		int64(m.GuildID), int64(m.RoleID), m.Level.String(),
	))
}

func (s *pgStore) RemoveMapping(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) (bool, error) {
	return deleted(s.db.Exec(ctx,
		`DELETE FROM pie_acl_aclevel_mapping WHERE guild_id = $1 AND role_id = $2`,
		int64(guildID), int64(roleID),
	))
}
