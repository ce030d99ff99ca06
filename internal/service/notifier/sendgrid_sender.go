package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender delivers notifications through the SendGrid v3 API.
type SendGridSender struct {
	client      *sendgrid.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

// NewSendGridSender creates a sender backed by the SendGrid v3 mail API.
func NewSendGridSender(apiKey, fromAddress, fromName string, logger *slog.Logger) (*SendGridSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key cannot be empty")
	}
	if fromAddress == "" {
		return nil, fmt.Errorf("sender from address cannot be empty")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &SendGridSender{
		client:      sendgrid.NewSendClient(apiKey),
		fromAddress: fromAddress,
		fromName:    fromName,
		logger:      logger.With(slog.String("component", "sendgrid_sender")),
	}, nil
}

// Send delivers the message through SendGrid. The provider's acceptance is
// judged by the response status code: anything in the 2xx range counts.
func (s *SendGridSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail(req.To, req.To)
	message := mail.NewSingleEmail(from, req.Subject, to, req.Content, req.Content)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("sendgrid request failed",
			slog.String("to", req.To),
			slog.String("error", err.Error()))
		return SendResult{}, fmt.Errorf("sendgrid send: %w", err)
	}

	accepted := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !accepted {
		s.logger.Warn("sendgrid rejected message",
			slog.String("to", req.To),
			slog.Int("status_code", resp.StatusCode))
	}

	return SendResult{Accepted: accepted, StatusCode: resp.StatusCode}, nil
}
