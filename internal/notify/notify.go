// Package notify delivers rendered limit-breach notifications. Delivery is
// best effort from the caller's point of view: evaluation outcomes never
// depend on whether a message went out.
package notify

import (
	"context"
	"log/slog"

	"masraf/internal/core"
)

// Notifier sends one rendered notification. Implementations must respect ctx
// cancellation; callers bound every send with a timeout.
type Notifier interface {
	Send(ctx context.Context, n core.Notification) error
}

// LogNotifier writes notifications to the structured log instead of
// delivering them. Default backend for local development.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, n core.Notification) error {
	slog.InfoContext(ctx, "Notification (log backend)",
		"user_id", n.UserID,
		"to", n.To,
		"period", string(n.Period),
		"subject", n.Subject,
		"total", n.Total.String(),
		"limit", n.Limit.String())
	return nil
}
