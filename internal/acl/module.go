package acl

import (
	"go.uber.org/fx"

	"github.com/strawberry-py/strawberry-go/internal/config"
	"github.com/strawberry-py/strawberry-go/internal/database"
)

// Module provides the access control Service and the bot owner set.
var Module = fx.Module("acl",
	fx.Provide(
		NewStore,
		NewService,
		func(cfg *config.Config) *Owners { return NewOwners(cfg.Discord.OwnerIDs...) },
		database.AsSchema(Schema),
	),
)
