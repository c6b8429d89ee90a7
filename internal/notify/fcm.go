package notify

import (
	"context"

	"firebase.google.com/go/v4/messaging"
)

// FCMPusher delivers push batches through Firebase Cloud Messaging
type FCMPusher struct {
	client *messaging.Client
}

// NewFCMPusher creates a new FCMPusher
func NewFCMPusher(client *messaging.Client) *FCMPusher {
	return &FCMPusher{client: client}
}

// SendMulticast submits one multicast message for all tokens. Invalid or
// expired tokens surface as per-token failures in the batch response, not as
// an error.
func (p *FCMPusher) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error) {
	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := p.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return len(tokens), err
	}
	return response.FailureCount, nil
}
