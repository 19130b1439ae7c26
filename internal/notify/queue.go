package notify

import (
	"context"
	"fmt"

	"masraf/internal/amqp"
	"masraf/internal/core"
)

// NotificationPublisher hands a rendered notification to the message broker.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, msg *amqp.NotificationMessage) error
}

// QueueNotifier publishes notifications to the broker for asynchronous
// delivery by a separate worker process.
type QueueNotifier struct {
	publisher NotificationPublisher
}

func NewQueueNotifier(publisher NotificationPublisher) *QueueNotifier {
	return &QueueNotifier{publisher: publisher}
}

func (q *QueueNotifier) Send(ctx context.Context, n core.Notification) error {
	msg := amqp.NewNotificationMessage(n.UserID, n.To, string(n.Period), n.Subject, n.Body)
	if err := q.publisher.PublishNotification(ctx, msg); err != nil {
		return fmt.Errorf("enqueue notification for user %d: %w", n.UserID, err)
	}
	return nil
}
