package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caasmo/tokengate/config"
	"github.com/caasmo/tokengate/crypto"
	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/mail"
	"github.com/caasmo/tokengate/queue"
)

// ActivationEmailHandler handles activation email jobs
type ActivationEmailHandler struct {
	dbAuth         db.DbAuth
	configProvider *config.Provider
	mailer         mail.MailerInterface
}

// NewActivationEmailHandler creates a new ActivationEmailHandler
func NewActivationEmailHandler(dbAuth db.DbAuth, provider *config.Provider, mailer mail.MailerInterface) *ActivationEmailHandler {
	return &ActivationEmailHandler{
		dbAuth:         dbAuth,
		configProvider: provider,
		mailer:         mailer,
	}
}

// Handle implements the JobHandler interface for activation emails.
// The token is minted here, at send time, not at enqueue time: the TTL
// starts counting when the email goes out, and a user deleted in between
// simply ends the job without an email.
func (h *ActivationEmailHandler) Handle(ctx context.Context, job db.Job) error {
	cfg := h.configProvider.Get()

	var payload queue.PayloadActivationEmail
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse activation email payload: %w", err)
	}

	user, err := h.dbAuth.GetUserByEmail(payload.Email)
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		// Account removed since registration. Nothing to send.
		return nil
	}
	if user.Verified {
		// A concurrent activation beat this job. Nothing to send.
		return nil
	}

	token, err := crypto.NewJwtActivationToken(
		user.ID,
		user.Email,
		user.Password,
		cfg.Jwt.ActivationSecret,
		cfg.Jwt.ActivationTokenDuration.Duration,
	)
	if err != nil {
		return fmt.Errorf("failed to create activation token: %w", err)
	}

	callbackURL := fmt.Sprintf("%s/activate/%s", cfg.Server.BaseURL(), token)

	if err := h.mailer.SendActivationEmail(ctx, user.Email, callbackURL); err != nil {
		return fmt.Errorf("failed to send activation email: %w", err)
	}

	return nil
}
