package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"masraf/internal/core"
	"masraf/internal/notify"
)

// Evaluator checks a user's totals against their limits and dispatches at
// most one notification per evaluation.
type Evaluator struct {
	notifier notify.Notifier
	timeout  time.Duration
}

func NewEvaluator(notifier notify.Notifier, timeout time.Duration) *Evaluator {
	return &Evaluator{notifier: notifier, timeout: timeout}
}

// Evaluate applies the threshold rules and sends the resulting notification,
// if any. The returned notification describes what was sent (or was due, when
// delivery failed). Send errors are returned alongside the notification so
// callers can decide whether delivery failure is fatal.
func (e *Evaluator) Evaluate(ctx context.Context, u core.User, totals core.Totals) (*core.Notification, error) {
	n := core.EvaluateThresholds(u, totals)
	if n == nil {
		return nil, nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.notifier.Send(sendCtx, *n); err != nil {
		return n, fmt.Errorf("notify user %d (%s breach): %w", u.ID, n.Period, err)
	}

	slog.InfoContext(ctx, "Limit breach notified",
		"user_id", u.ID,
		"period", string(n.Period),
		"total", n.Total.String(),
		"limit", n.Limit.String())
	return n, nil
}
