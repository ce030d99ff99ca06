package notifier

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DefaultSimulatedDelay mirrors the latency of a real provider call so the
// surrounding pipeline behaves realistically without an API key.
const DefaultSimulatedDelay = 1000 * time.Millisecond

// SimulatedSender pretends to deliver mail. Every message is accepted after a
// configurable delay, and results are flagged so no delivery record is kept.
type SimulatedSender struct {
	delay  time.Duration
	logger *slog.Logger
}

// NewSimulatedSender creates a sender that accepts everything after delay.
// A negative delay falls back to DefaultSimulatedDelay.
func NewSimulatedSender(delay time.Duration, logger *slog.Logger) *SimulatedSender {
	if delay < 0 {
		delay = DefaultSimulatedDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SimulatedSender{
		delay:  delay,
		logger: logger.With(slog.String("component", "simulated_sender")),
	}
}

// Send waits out the configured delay and reports acceptance.
func (s *SimulatedSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return SendResult{Simulated: true}, ctx.Err()
		}
	}

	s.logger.Info("simulated email delivery",
		slog.String("to", req.To),
		slog.String("subject", req.Subject))

	return SendResult{Accepted: true, StatusCode: http.StatusAccepted, Simulated: true}, nil
}
