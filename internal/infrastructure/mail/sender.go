package mail

import (
	"context"
	"fmt"

	appregistry "github.com/bony/backend/internal/application/registry"
	"github.com/bony/backend/internal/infrastructure/config"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Sender delivers transactional mail over SMTP. It implements the
// PasswordMailer and MilestoneNotifier ports.
type Sender struct {
	client *mail.Client
	from   string
	logger *zap.Logger
}

// NewSender creates an SMTP sender from configuration
func NewSender(cfg config.MailConfig, logger *zap.Logger) (*Sender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Sender{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

// SendPasswordReset mails a freshly generated password to the account
// holder
func (s *Sender) SendPasswordReset(ctx context.Context, to, username, password string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"A password reset was requested for your account. Your new password is:\n\n"+
			"    %s\n\n"+
			"Please sign in and change it right away.\n\n"+
			"If you did not request this, contact support.\n",
		username, password)

	return s.send(ctx, to, "Your new password", body)
}

// NotifyViewMilestone mails the owner when a dog's profile reaches a
// round view count
func (s *Sender) NotifyViewMilestone(ctx context.Context, m appregistry.ViewMilestone) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"%s's profile just reached %d views. Congratulations!\n\n"+
			"See the profile at /dogs/%s\n",
		m.OwnerName, m.DogName, m.Views, m.DogSlug)

	return s.send(ctx, m.OwnerEmail, fmt.Sprintf("%s reached %d views", m.DogName, m.Views), body)
}

func (s *Sender) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	s.logger.Debug("Mail sent", zap.String("subject", subject))
	return nil
}
