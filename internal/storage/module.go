package storage

import (
	"go.uber.org/fx"

	"github.com/strawberry-py/strawberry-go/internal/database"
)

// Module provides the Storage.
var Module = fx.Module("storage",
	fx.Provide(
		NewStore,
		New,
		database.AsSchema(Schema),
	),
)
