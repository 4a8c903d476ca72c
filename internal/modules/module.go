package modules

import (
	"go.uber.org/fx"
)

// Module provides the module Registry.
var Module = fx.Module("modules",
	fx.Provide(NewRegistry),
)
