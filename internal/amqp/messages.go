package amqp

import (
	"encoding/json"
	"time"
)

// NotificationMessage carries one rendered limit-breach notification from the
// evaluating process to the delivery worker. The body is fully rendered at
// publish time so the worker needs no store access.
type NotificationMessage struct {
	UserID    int64     `json:"user_id"`
	To        string    `json:"to"`
	Period    string    `json:"period"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

func NewNotificationMessage(userID int64, to, period, subject, body string) *NotificationMessage {
	return &NotificationMessage{
		UserID:    userID,
		To:        to,
		Period:    period,
		Subject:   subject,
		Body:      body,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON creates a message from JSON bytes
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
