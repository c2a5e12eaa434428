package handlers

import (
	"context"

	"github.com/caasmo/tokengate/config"
	"github.com/caasmo/tokengate/mail"
)

// mailerMock is a mock implementation of the mailer for testing purposes.
type mailerMock struct {
	SendActivationEmailFunc    func(ctx context.Context, email, callbackURL string) error
	SendPasswordResetEmailFunc func(ctx context.Context, email, callbackURL string) error
}

func (m *mailerMock) SendActivationEmail(ctx context.Context, email, callbackURL string) error {
	if m.SendActivationEmailFunc != nil {
		return m.SendActivationEmailFunc(ctx, email, callbackURL)
	}
	return nil
}

func (m *mailerMock) SendPasswordResetEmail(ctx context.Context, email, callbackURL string) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(ctx, email, callbackURL)
	}
	return nil
}

var _ mail.MailerInterface = (*mailerMock)(nil)

const testSecret = "0123456789abcdef0123456789abcdef"

// testProvider returns a config provider with signing secrets filled in.
func testProvider() *config.Provider {
	cfg := config.NewDefaultConfig()
	cfg.Jwt.AuthSecret = testSecret
	cfg.Jwt.ActivationSecret = testSecret
	cfg.Jwt.PasswordResetSecret = testSecret
	return config.NewProvider(cfg)
}
