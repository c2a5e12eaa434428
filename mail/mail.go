package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/caasmo/tokengate/config"
	"github.com/domodwyer/mailyak/v3"
)

// MailerInterface is what the queue handlers depend on; satisfied by Mailer
// and by test mocks.
type MailerInterface interface {
	SendActivationEmail(ctx context.Context, email, callbackURL string) error
	SendPasswordResetEmail(ctx context.Context, email, callbackURL string) error
}

var _ MailerInterface = (*Mailer)(nil)

// Mailer sends the token-bearing lifecycle emails. It reads SMTP settings
// through the config provider on every send so credential rotation does not
// require a restart.
type Mailer struct {
	configProvider *config.Provider
}

// New creates a new Mailer instance
func New(provider *config.Provider) (*Mailer, error) {
	cfg := provider.Get().Smtp
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, fmt.Errorf("smtp host and port must be configured")
	}
	return &Mailer{configProvider: provider}, nil
}

func (m *Mailer) newMail() (*mailyak.MailYak, config.Smtp) {
	cfg := m.configProvider.Get().Smtp

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	mail := mailyak.New(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), auth)
	mail.From(cfg.FromAddress)
	mail.FromName(cfg.FromName)
	return mail, cfg
}

// send delivers the mail respecting the configured send timeout and the
// caller's context deadline, whichever hits first. mailyak's Send has no
// context support, so it runs in a goroutine and the context decides how
// long to wait.
func (m *Mailer) send(ctx context.Context, mail *mailyak.MailYak, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// SendActivationEmail sends the email verification message with the
// activation link.
func (m *Mailer) SendActivationEmail(ctx context.Context, email, callbackURL string) error {
	mail, cfg := m.newMail()

	mail.To(email)
	mail.Subject("Activate your account")
	mail.HTML().Set(fmt.Sprintf(`
		<h1>Activate your account</h1>
		<p>Please click the link below to verify your email address:</p>
		<p><a href="%s">Activate account</a></p>
		<p>If you did not create this account, you can ignore this email.</p>
	`, callbackURL))

	if err := m.send(ctx, mail, cfg.SendTimeout.Duration); err != nil {
		return fmt.Errorf("failed to send activation email: %w", err)
	}
	return nil
}

// SendPasswordResetEmail sends the password reset message with the reset link.
func (m *Mailer) SendPasswordResetEmail(ctx context.Context, email, callbackURL string) error {
	mail, cfg := m.newMail()

	mail.To(email)
	mail.Subject("Reset your password")
	mail.HTML().Set(fmt.Sprintf(`
		<h1>Reset your password</h1>
		<p>Please click the link below to choose a new password:</p>
		<p><a href="%s">Reset password</a></p>
		<p>The link expires soon. If you did not request this, you can ignore this email.</p>
	`, callbackURL))

	if err := m.send(ctx, mail, cfg.SendTimeout.Duration); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
