package i18n

import (
	"go.uber.org/fx"

	"github.com/strawberry-py/strawberry-go/internal/database"
)

// Module provides the Translator and its storage.
var Module = fx.Module("i18n",
	fx.Provide(
		DefaultCatalog,
		NewStore,
		NewTranslator,
		database.AsSchema(Schema),
	),
)
