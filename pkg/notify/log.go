package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier records notifications through zerolog. It uses the logger
// attached to the context when present, falling back to its own.
type LogNotifier struct {
	Logger zerolog.Logger
}

// NewLogNotifier returns a notifier that logs through logger.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (l *LogNotifier) Announce(ctx context.Context, n Notification) {
	n = normalize(n)
	logger := &l.Logger
	if ctx != nil {
		if ctxLogger := zerolog.Ctx(ctx); ctxLogger.GetLevel() != zerolog.Disabled {
			logger = ctxLogger
		}
	}

	event := logger.Info()
	if n.Level == LevelError {
		event = logger.Warn()
	}
	event.
		Str("level_hint", string(n.Level)).
		Str("position", string(n.Options.Position)).
		Dur("auto_close", n.Options.AutoClose).
		Msg(n.Message)
}
