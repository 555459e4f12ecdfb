// Package notify delivers e-mail notifications about quotes.
//
// Delivery is best effort: callers log a failed Send and carry on.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/config"
	"github.com/northlight-studio/agency-api/internal/metrics"
)

// ErrNoRecipient is returned when a message has no destination address
var ErrNoRecipient = errors.New("message has no recipient")

// Message is a rendered e-mail
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
	// Kind labels the message in metrics, e.g. "client_quote" or "admin_alert"
	Kind string
}

// Sender delivers rendered messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the sender selected by cfg.Provider
func New(ctx context.Context, cfg *config.EmailConfig, logger *zap.Logger) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ses":
		return NewSESSender(ctx, cfg, logger)
	case "", "log":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// LogSender writes messages to the log instead of sending them
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		record(msg.Kind, ErrNoRecipient)
		return ErrNoRecipient
	}
	s.logger.Info("email (log provider)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("kind", msg.Kind),
		zap.Int("text_length", len(msg.Text)))
	record(msg.Kind, nil)
	return nil
}

func record(kind string, err error) {
	if kind == "" {
		kind = "other"
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	metrics.NotificationsSent.WithLabelValues(kind, outcome).Inc()
}
