package settings

import (
	"context"

	"github.com/strawberry-py/strawberry-go/internal/database"
)

// Schema returns the table of the settings row.
func Schema() database.Schema {
	return database.Schema{
		Component: "config",
		Version:   1,
		Tables:    []string{"config"},
		Create: []string{
			`CREATE TABLE IF NOT EXISTS config (
				idx SERIAL PRIMARY KEY,
				prefix TEXT NOT NULL DEFAULT '!',
				language TEXT NOT NULL DEFAULT 'en',
				status TEXT NOT NULL DEFAULT 'online'
			)`,
		},
	}
}

type pgStore struct {
	db database.DB
}

// NewStore returns a PostgreSQL backed Store.
func NewStore(db database.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Load(ctx context.Context) (Settings, error) {
	var out Settings
	err := s.db.WithTx(ctx, func(q database.Querier) error {
		err := q.QueryRow(ctx,
			`SELECT prefix, language, status FROM config ORDER BY idx LIMIT 1`,
		).Scan(&out.Prefix, &out.Language, &out.Status)
		if !database.IsNoRows(err) {
			return err
		}

		out = Default()
		_, err = q.Exec(ctx,
			`INSERT INTO config (prefix, language, status) VALUES ($1, $2, $3)`,
			out.Prefix, out.Language, out.Status,
		)
		return err
	})

	return out, err
}

func (s *pgStore) Save(ctx context.Context, settings Settings) error {
	_, err := s.db.Exec(ctx,
		`UPDATE config SET prefix = $1, language = $2, status = $3
		WHERE idx = (SELECT min(idx) FROM config)`,
		settings.Prefix, settings.Language, settings.Status,
	)

	return err
}
