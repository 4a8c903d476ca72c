package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

var (
	// ErrMissingUpdate is returned when a component has no update step from
	// its recorded version to the next one.
	ErrMissingUpdate = errors.New("missing schema update")
	// ErrSchemaTooNew is returned when the database holds a newer schema
	// than the running code knows.
	ErrSchemaTooNew = errors.New("database schema is newer than the code")
)

// Schema describes the tables a component owns.
type Schema struct {
	// Component is the key stored in database_versions.
	Component string
	// Version is the current schema version.
	Version int
	// Tables are the tables created by Create. A component without a
	// recorded version whose tables exist is treated as version 1.
	Tables []string
	// Create builds the tables from scratch at Version.
	Create []string
	// Updates maps version v to the statements that move the schema to v+1.
	Updates map[int][]string
}

const versionsTable = `CREATE TABLE IF NOT EXISTS database_versions (
	module_name TEXT PRIMARY KEY,
	version INTEGER NOT NULL
)`

// Migrator brings every registered component schema up to date.
type Migrator struct {
	db      DB
	schemas []Schema
	logger  *zap.Logger
}

// NewMigrator creates a Migrator for the given schemas.
func NewMigrator(db DB, schemas []Schema, logger *zap.Logger) *Migrator {
	sorted := make([]Schema, len(schemas))
	copy(sorted, schemas)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Component < sorted[j].Component
	})

	return &Migrator{
		db:      db,
		schemas: sorted,
		logger:  logger.Named("migrator"),
	}
}

// Migrate creates missing schemas and applies pending updates.
func (m *Migrator) Migrate(ctx context.Context) error {
	if _, err := m.db.Exec(ctx, versionsTable); err != nil {
		return fmt.Errorf("failed to create database_versions: %w", err)
	}

	for _, schema := range m.schemas {
		if err := m.migrate(ctx, schema); err != nil {
			return fmt.Errorf("component %s: %w", schema.Component, err)
		}
	}

	return nil
}

func (m *Migrator) migrate(ctx context.Context, schema Schema) error {
	var current int
	err := m.db.QueryRow(ctx,
		`SELECT version FROM database_versions WHERE module_name = $1`,
		schema.Component,
	).Scan(&current)

	switch {
	case IsNoRows(err):
		exists, err := m.tablesExist(ctx, schema.Tables)
		if err != nil {
			return err
		}
		if !exists {
			return m.create(ctx, schema)
		}

		current = 1
		if _, err := m.db.Exec(ctx,
			`INSERT INTO database_versions (module_name, version) VALUES ($1, $2)`,
			schema.Component, current,
		); err != nil {
			return err
		}
		m.logger.Warn("Schema without recorded version, assuming version 1",
			zap.String("component", schema.Component))
	case err != nil:
		return err
	case current > schema.Version:
		return fmt.Errorf("%w: recorded %d, known %d", ErrSchemaTooNew, current, schema.Version)
	}

	for v := current; v < schema.Version; v++ {
		statements, ok := schema.Updates[v]
		if !ok {
			return fmt.Errorf("%w: %d -> %d", ErrMissingUpdate, v, v+1)
		}

		err := m.db.WithTx(ctx, func(q Querier) error {
			if err := execAll(ctx, q, statements); err != nil {
				return err
			}
			_, err := q.Exec(ctx,
				`UPDATE database_versions SET version = $2 WHERE module_name = $1`,
				schema.Component, v+1,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("update %d -> %d: %w", v, v+1, err)
		}

		m.logger.Info("Schema updated",
			zap.String("component", schema.Component),
			zap.Int("version", v+1))
	}

	return nil
}

func (m *Migrator) create(ctx context.Context, schema Schema) error {
	err := m.db.WithTx(ctx, func(q Querier) error {
		if err := execAll(ctx, q, schema.Create); err != nil {
			return err
		}
		_, err := q.Exec(ctx,
			`INSERT INTO database_versions (module_name, version) VALUES ($1, $2)`,
			schema.Component, schema.Version,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	m.logger.Info("Schema created",
		zap.String("component", schema.Component),
		zap.Int("version", schema.Version))

	return nil
}

// tablesExist reports whether any of the tables is present.
func (m *Migrator) tablesExist(ctx context.Context, tables []string) (bool, error) {
	for _, table := range tables {
		var exists bool
		if err := m.db.QueryRow(ctx,
			`SELECT to_regclass($1) IS NOT NULL`, table,
		).Scan(&exists); err != nil {
			return false, fmt.Errorf("failed to look up table %s: %w", table, err)
		}
		if exists {
			return true, nil
		}
	}

	return false, nil
}

func execAll(ctx context.Context, q Querier, statements []string) error {
	for _, stmt := range statements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
