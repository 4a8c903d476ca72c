package i18n

import (
	"context"
	"errors"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/database"
)

// ErrUnknownLanguage is returned when a preference names a language the bot
// cannot speak.
var ErrUnknownLanguage = errors.New("unknown language")

// Store persists language preferences. Getters return "" when unset.
type Store interface {
	GuildLanguage(ctx context.Context, guildID discord.GuildID) (string, error)
	SetGuildLanguage(ctx context.Context, guildID discord.GuildID, lang string) error
	UnsetGuildLanguage(ctx context.Context, guildID discord.GuildID) (bool, error)
	MemberLanguage(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (string, error)
	SetMemberLanguage(ctx context.Context, guildID discord.GuildID, userID discord.UserID, lang string) error
	UnsetMemberLanguage(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (bool, error)
}

// Schema returns the tables of the language preferences.
func Schema() database.Schema {
	return database.Schema{
		Component: "i18n",
		Version:   1,
		Tables:    []string{"language_guilds", "language_members"},
		Create: []string{
			`CREATE TABLE IF NOT EXISTS language_guilds (
				idx SERIAL PRIMARY KEY,
				guild_id BIGINT NOT NULL UNIQUE,
				language TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS language_members (
				idx SERIAL PRIMARY KEY,
				guild_id BIGINT NOT NULL,
				member_id BIGINT NOT NULL,
				language TEXT NOT NULL,
				UNIQUE (guild_id, member_id)
			)`,
		},
	}
}

type pgStore struct {
	db database.Querier
}

// NewStore returns a PostgreSQL backed Store.
func NewStore(db database.Querier) Store {
	return &pgStore{db: db}
}

func (s *pgStore) GuildLanguage(ctx context.Context, guildID discord.GuildID) (string, error) {
	var lang string
	err := s.db.QueryRow(ctx,
		`SELECT language FROM language_guilds WHERE guild_id = $1`,
		int64(guildID),
	).Scan(&lang)
	if database.IsNoRows(err) {
		return "", nil
	}

	return lang, err
}

func (s *pgStore) SetGuildLanguage(ctx context.Context, guildID discord.GuildID, lang string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO language_guilds (guild_id, language) VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET language = EXCLUDED.language`,
		int64(guildID), lang,
	)

	return err
}

func (s *pgStore) UnsetGuildLanguage(ctx context.Context, guildID discord.GuildID) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM language_guilds WHERE guild_id = $1`,
		int64(guildID),
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (s *pgStore) MemberLanguage(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (string, error) {
	var lang string
	err := s.db.QueryRow(ctx,
		`SELECT language FROM language_members WHERE guild_id = $1 AND member_id = $2`,
		int64(guildID), int64(userID),
	).Scan(&lang)
	if database.IsNoRows(err) {
		return "", nil
	}

	return lang, err
}

func (s *pgStore) SetMemberLanguage(ctx context.Context, guildID discord.GuildID, userID discord.UserID, lang string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO language_members (guild_id, member_id, language) VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, member_id) DO UPDATE SET language = EXCLUDED.language`,
		int64(guildID), int64(userID), lang,
	)

	return err
}

func (s *pgStore) UnsetMemberLanguage(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM language_members WHERE guild_id = $1 AND member_id = $2`,
		int64(guildID), int64(userID),
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
