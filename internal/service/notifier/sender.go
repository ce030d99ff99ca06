// Package notifier delivers assignment notification emails in response to
// task saved events. Delivery is pluggable behind the Sender interface so the
// composition root can choose between the SendGrid-backed sender and a
// simulated sender for environments without an API key.
package notifier

import "context"

// SendRequest carries everything a Sender needs to deliver one notification.
type SendRequest struct {
	// To is the recipient email address.
	To string

	// Subject is the email subject line.
	Subject string

	// Content is the plain-text body.
	Content string
}

// SendResult reports the outcome of a delivery attempt.
type SendResult struct {
	// Accepted indicates the provider took responsibility for the message.
	Accepted bool

	// StatusCode is the provider's HTTP status code, when one exists.
	StatusCode int

	// Simulated is true when no real provider was involved. Simulated
	// deliveries must not be recorded as sent mail.
	Simulated bool
}

// Sender delivers a single notification email.
type Sender interface {
	// Send attempts delivery and returns the provider's verdict. A non-nil
	// error means the attempt itself failed (network, provider outage); a
	// nil error with Accepted=false means the provider rejected the message.
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
