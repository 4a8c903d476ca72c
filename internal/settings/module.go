package settings

import (
	"context"

	"go.uber.org/fx"

	"github.com/strawberry-py/strawberry-go/internal/database"
	"github.com/strawberry-py/strawberry-go/internal/i18n"
)

// Module provides the settings Service, also exposed as the global language
// of the translator.
var Module = fx.Module("settings",
	fx.Provide(
		NewStore,
		NewService,
		func(s *Service) i18n.GlobalLanguage { return s },
		database.AsSchema(Schema),
	),
	fx.Invoke(func(lc fx.Lifecycle, s *Service) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error { return s.Load(ctx) },
		})
	}),
)
