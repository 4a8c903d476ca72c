package spamchannel

import (
	"go.uber.org/fx"

	"github.com/strawberry-py/strawberry-go/internal/database"
)

// Module provides the spam channel Store and Guard.
var Module = fx.Module("spamchannel",
	fx.Provide(
		NewStore,
		NewGuard,
		database.AsSchema(Schema),
	),
)
