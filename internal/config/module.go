// Package config provides configuration infrastructure and Fx modules.
package config

import (
	"time"

	"go.uber.org/fx"
)

// Module provides configuration dependencies.
var Module = fx.Module("config",
	fx.Provide(
		LoadConfig,
		func(cfg *Config) *time.Location { return cfg.Location() },
	),
)
