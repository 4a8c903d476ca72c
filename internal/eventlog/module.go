package eventlog

import (
	"time"

	"github.com/diamondburned/arikawa/v3/state"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/config"
	"github.com/strawberry-py/strawberry-go/internal/database"
)

// Module provides the EventLog.
var Module = fx.Module("eventlog",
	fx.Provide(
		NewStore,
		NewEventLogProvider,
		database.AsSchema(Schema),
	),
)

// EventLogParams are the dependencies of the EventLog.
type EventLogParams struct {
	fx.In

	Store    Store
	State    *state.State
	Cfg      *config.Config
	Location *time.Location
	Logger   *zap.Logger
}

// NewEventLogProvider builds the EventLog from the application configuration.
func NewEventLogProvider(p EventLogParams) *EventLog {
	var file *FileSink
	if p.Cfg.EventLog.Dir != "" {
		file = NewFileSink(p.Cfg.EventLog.Dir)
	}

	return New(p.Store, p.State, file, p.Location, p.Logger)
}
