package core

import (
	"encoding/json"
	"net/http"

	"github.com/caasmo/tokengate/crypto"
)

// ActivateHandler confirms an account activation token and marks the email
// as verified.
// Endpoint: PUT /auth/activate
// Authenticated: No
// Allowed Mimetype: application/json
//
// The token signature is verified with a key derived from the stored
// credentials, so the unverified claims are parsed first to find the user,
// then the full verification runs against that user's password hash. Token
// failures are surfaced with one generic response so a caller cannot tell a
// bad signature from an expired token.
func (a *App) ActivateHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Token == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	// Parse unverified claims to discard garbage fast
	claims, err := crypto.ParseJwtUnverified(req.Token)
	if err != nil {
		writeJsonError(w, errorInvalidVerificationToken)
		return
	}
	if err := crypto.ValidateActivationClaims(claims); err != nil {
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

	// The verified flag answers before the signature does: replaying an
	// already used activation link reports the verified state, not a
	// generic token failure.
	if user.Verified {
		writeJsonError(w, errorAlreadyVerified)
		return
	}

	if a.tokenConsumed(req.Token) {
		writeJsonError(w, errorInvalidVerificationToken)
		return
	}

	cfg := a.Config()
	signingKey, err := crypto.NewJwtSigningKeyWithCredentials(
		claims[crypto.ClaimEmail].(string),
		user.Password,
		cfg.Jwt.ActivationSecret,
	)
	if err != nil {
		writeJsonError(w, errorInvalidVerificationToken)
		return
	}

	// Fully verify token signature and expiry
	if _, err := crypto.ParseJwt(req.Token, signingKey); err != nil {
		writeJsonError(w, errorInvalidVerificationToken)
		return
	}

	if err := a.DbAuth().VerifyEmail(user.ID); err != nil {
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	a.markTokenConsumed(req.Token, cfg.Jwt.ActivationTokenDuration.Duration)

	writeJsonOk(w, okEmailVerified)
}
