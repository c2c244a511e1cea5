package notification

import (
	"context"
	"time"

	"firebase.google.com/go/v4/messaging"

	"scamwatch/pkg/logger"
)

const sendTimeout = 10 * time.Second

// FCMPushSender delivers push notifications through Firebase Cloud
// Messaging. Expected provider failures return false, never panic.
type FCMPushSender struct {
	client *messaging.Client
}

func NewFCMPushSender(client *messaging.Client) *FCMPushSender {
	return &FCMPushSender{client: client}
}

func (s *FCMPushSender) Send(ctx context.Context, destination, title, body string, metadata map[string]string) bool {
	if destination == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	message := &messaging.Message{
		Token: destination,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: metadata,
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		logger.Warn("FCM send failed: %v", err)
		return false
	}
	return true
}
