// Package notify sends rendered reports over email. The system is
// outbound-only: email is the single delivery channel.
package notify

import "context"

// Message is a rendered report ready for delivery.
type Message struct {
	Subject  string
	HTMLBody string
}

// Notifier delivers a message to one or more recipients.
type Notifier interface {
	Send(ctx context.Context, to []string, msg Message) error
}
