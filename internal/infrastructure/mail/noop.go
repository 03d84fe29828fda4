package mail

import (
	"context"

	appregistry "github.com/bony/backend/internal/application/registry"
	"go.uber.org/zap"
)

// NoopSender satisfies the mail ports without an SMTP server. Used in
// development and whenever mail is disabled; deliveries are logged
// instead of sent.
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a sender that only logs
func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

// SendPasswordReset logs the reset instead of mailing it. The password
// itself is never written to the log.
func (s *NoopSender) SendPasswordReset(_ context.Context, to, username, _ string) error {
	s.logger.Info("Mail disabled, skipping password reset delivery",
		zap.String("to", to),
		zap.String("username", username))
	return nil
}

// NotifyViewMilestone logs the milestone instead of mailing it
func (s *NoopSender) NotifyViewMilestone(_ context.Context, m appregistry.ViewMilestone) error {
	s.logger.Info("Mail disabled, skipping milestone notification",
		zap.String("dog", m.DogName),
		zap.Int64("views", m.Views))
	return nil
}
