package sms

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Gateway sends a text message to a single phone number
type Gateway interface {
	Send(ctx context.Context, phone, message string) error

	// Name returns the name of the SMS gateway implementation
	Name() string
}

// LogGateway writes messages to the log instead of sending them.
// Used in development where no Dialog key is configured.
type LogGateway struct {
	logger *logrus.Logger
}

// NewLogGateway creates a new LogGateway
func NewLogGateway(logger *logrus.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// Send logs the message
func (g *LogGateway) Send(_ context.Context, phone, message string) error {
	g.logger.WithFields(logrus.Fields{
		"phone":   phone,
		"message": message,
	}).Info("SMS (not sent)")
	return nil
}

// Name returns the name of this SMS gateway
func (g *LogGateway) Name() string {
	return "Log Gateway"
}
