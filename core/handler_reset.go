package core

import (
	"encoding/json"
	"net/http"

	"github.com/caasmo/tokengate/crypto"
)

// ResetPasswordHandler confirms a password reset token and stores the new
// password.
// Endpoint: POST /auth/reset
// Authenticated: No
// Allowed Mimetype: application/json
//
// The reset token was signed with a key derived from the password hash that
// was current when it was minted. A successful reset rotates the hash, so
// every outstanding reset token for the subject stops verifying on its own.
// The consumed-token cache additionally rejects a replay that would
// otherwise be a no-op (resetting to the same password).
func (a *App) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Token           string `json:"token"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	if req.Token == "" || req.Password == "" || req.ConfirmPassword == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if req.Password != req.ConfirmPassword {
		writeJsonError(w, errorPasswordMismatch)
		return
	}
	if err := ValidatePassword(req.Password); err != nil {
		writeJsonError(w, errorPasswordComplexity)
		return
	}

	// Parse unverified claims to discard garbage fast
	claims, err := crypto.ParseJwtUnverified(req.Token)
	if err != nil {
		writeJsonError(w, errorInvalidVerificationToken)
		return
	}
	if err := crypto.ValidatePasswordResetClaims(claims); err != nil {
		writeJsonError(w, errorInvalidVerificationToken)
		return
	}

	if a.tokenConsumed(req.Token) {
		writeJsonError(w, errorInvalidVerificationToken)
		return
	}

	user, err := a.DbAuth().GetUserById(claims[crypto.ClaimUserID].(string))
	if err != nil {
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if user == nil {
		writeJsonError(w, errorAccountNotFound)
		return
	}

	cfg := a.Config()
	signingKey, err := crypto.NewJwtSigningKeyWithCredentials(
		claims[crypto.ClaimEmail].(string),
		user.Password,
		cfg.Jwt.PasswordResetSecret,
	)
	if err != nil {
		writeJsonError(w, errorInvalidVerificationToken)
		return
	}

	if _, err := crypto.ParseJwt(req.Token, signingKey); err != nil {
		writeJsonError(w, errorInvalidVerificationToken)
		return
	}

	hashedPassword, err := crypto.GenerateHash(req.Password)
	if err != nil {
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	// Same password: no hash rotation, so the token must be burned here.
	if crypto.CheckPassword(req.Password, user.Password) {
		a.markTokenConsumed(req.Token, cfg.Jwt.PasswordResetTokenDuration.Duration)
		writeJsonOk(w, okPasswordResetNotNeeded)
		return
	}

	if err := a.DbAuth().UpdatePassword(user.ID, hashedPassword); err != nil {
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	a.markTokenConsumed(req.Token, cfg.Jwt.PasswordResetTokenDuration.Duration)

	writeJsonOk(w, okPasswordReset)
}
