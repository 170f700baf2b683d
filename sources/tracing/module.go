package tracing

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var Module = fx.Module("tracing",
	fx.Provide(NewConsoleLogger),
)

// FxLogger routes fx lifecycle events into the application logger.
func FxLogger(log *Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: log.With(Scope, "fx").Slog()}
}
