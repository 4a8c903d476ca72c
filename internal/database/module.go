package database

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/config"
)

// Module provides the connection pool and runs schema migrations on start.
// It must be listed before modules whose start hooks query the database.
var Module = fx.Module("database",
	fx.Provide(
		NewPoolProvider,
		func(p *Pool) DB { return p },
		func(p *Pool) Querier { return p },
		NewMigratorProvider,
	),
	fx.Invoke(registerMigrations),
)

// PoolParams holds dependencies for NewPoolProvider.
type PoolParams struct {
	fx.In
	Cfg    *config.Config
	LC     fx.Lifecycle
	Logger *zap.Logger
}

// NewPoolProvider connects the pool and closes it when the app stops.
func NewPoolProvider(params PoolParams) (*Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, params.Cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	params.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing database pool...")
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

// MigratorParams holds dependencies for NewMigratorProvider.
type MigratorParams struct {
	fx.In
	DB      DB
	Schemas []Schema `group:"schemas"`
	Logger  *zap.Logger
}

// NewMigratorProvider creates the Migrator from the schemas group.
func NewMigratorProvider(params MigratorParams) *Migrator {
	return NewMigrator(params.DB, params.Schemas, params.Logger)
}

func registerMigrations(lc fx.Lifecycle, m *Migrator) {
	lc.Append(fx.Hook{
		OnStart: m.Migrate,
	})
}

// AsSchema annotates a Schema constructor for the schemas group.
func AsSchema(f any) any {
	return fx.Annotate(f, fx.ResultTags(`group:"schemas"`))
}
