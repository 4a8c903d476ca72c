package storage

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/database"
)

// Store persists records.
type Store interface {
	Get(ctx context.Context, module string, guildID discord.GuildID, key string) (Record, bool, error)
	// Put writes rec. Without overwrite an existing record is kept and Put
	// returns false.
	Put(ctx context.Context, rec Record, overwrite bool) (bool, error)
	Delete(ctx context.Context, module string, guildID discord.GuildID, key string) (bool, error)
}

// Schema returns the storage table.
func Schema() database.Schema {
	return database.Schema{
		Component: "storage",
		Version:   1,
		Tables:    []string{"pie_storage_data"},
		Create: []string{
			`CREATE TABLE IF NOT EXISTS pie_storage_data (
				module TEXT NOT NULL,
				guild_id BIGINT NOT NULL,
				key TEXT NOT NULL,
				value TEXT,
				type TEXT,
				PRIMARY KEY (module, guild_id, key)
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

func (s *pgStore) Get(ctx context.Context, module string, guildID discord.GuildID, key string) (Record, bool, error) {
	rec := Record{Module: module, GuildID: guildID, Key: key}
	var typ string

	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(value, ''), COALESCE(type, '') FROM pie_storage_data
		WHERE module = $1 AND guild_id = $2 AND key = $3`,
		module, int64(guildID), key,
	).Scan(&rec.Value, &typ)
	if database.IsNoRows(err) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	rec.Type = Type(typ)

	return rec, true, nil
}

func (s *pgStore) Put(ctx context.Context, rec Record, overwrite bool) (bool, error) {
	conflict := `DO NOTHING`
	if overwrite {
		conflict = `DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type`
	}

	tag, err := s.db.Exec(ctx,
		`INSERT INTO pie_storage_data (module, guild_id, key, value, type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (module, guild_id, key) `+conflict,
		rec.Module, int64(rec.GuildID), rec.Key, rec.Value, string(rec.Type),
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (s *pgStore) Delete(ctx context.Context, module string, guildID discord.GuildID, key string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM pie_storage_data WHERE module = $1 AND guild_id = $2 AND key = $3`,
		module, int64(guildID), key,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
