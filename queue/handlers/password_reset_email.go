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

// PasswordResetEmailHandler handles password reset email jobs
type PasswordResetEmailHandler struct {
	dbAuth         db.DbAuth
	configProvider *config.Provider
	mailer         mail.MailerInterface
}

// NewPasswordResetEmailHandler creates a new PasswordResetEmailHandler
func NewPasswordResetEmailHandler(dbAuth db.DbAuth, provider *config.Provider, mailer mail.MailerInterface) *PasswordResetEmailHandler {
	return &PasswordResetEmailHandler{
		dbAuth:         dbAuth,
		configProvider: provider,
		mailer:         mailer,
	}
}

// Handle implements the JobHandler interface for password reset emails.
// The reset token is signed with a key derived from the user's current
// password hash, so it stops verifying the moment the password changes.
func (h *PasswordResetEmailHandler) Handle(ctx context.Context, job db.Job) error {
	cfg := h.configProvider.Get()

	var payload queue.PayloadPasswordResetEmail
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse password reset payload: %w", err)
	}

	var payloadExtra queue.PayloadPasswordResetEmailExtra
	if err := json.Unmarshal(job.PayloadExtra, &payloadExtra); err != nil {
		return fmt.Errorf("failed to parse password reset extra payload: %w", err)
	}

	user, err := h.dbAuth.GetUserById(payload.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	if user == nil {
		// Not an error: the account disappeared and the requester must not
		// learn that.
		return nil
	}

	token, err := crypto.NewJwtPasswordResetToken(
		user.ID,
		user.Email,
		user.Password,
		cfg.Jwt.PasswordResetSecret,
		cfg.Jwt.PasswordResetTokenDuration.Duration,
	)
	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}

	callbackURL := fmt.Sprintf("%s/reset/%s", cfg.Server.BaseURL(), token)

	if err := h.mailer.SendPasswordResetEmail(ctx, payloadExtra.Email, callbackURL); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}
