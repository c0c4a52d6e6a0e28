package modulecontent

import (
	"context"
	"log/slog"
)

// NoopNotifier discards notifications. It is the default sink when no
// notifier is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, n Notification) error { return nil }

// LogNotifier writes notifications to a structured logger. Useful as the
// default sink when no real notification fan-out is wired.
type LogNotifier struct {
	Logger *slog.Logger
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(logger *slog.Logger) LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return LogNotifier{Logger: logger}
}

func (n LogNotifier) Notify(ctx context.Context, notif Notification) error {
	n.Logger.Info("notification",
		"kind", notif.Kind,
		"title", notif.Title,
		"message", notif.Message,
		"target_role", notif.TargetRole,
		"link", notif.Link,
	)
	return nil
}
