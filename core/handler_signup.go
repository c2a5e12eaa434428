package core

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/caasmo/tokengate/crypto"
	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/queue"
)

// SignupHandler handles password-based account registration.
// Endpoint: POST /auth/signup
// Authenticated: No
// Allowed Mimetype: application/json
//
// A user who registered via OAuth2 first may sign up with a password later:
// CreateUserWithPassword fills the empty password and keeps the record. If
// the account already has a password the insert keeps the stored hash, and
// the mismatch between submitted and returned hash surfaces the conflict.
func (a *App) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		Email           string `json:"email"`
		Phone           string `json:"phone"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		Accept          bool   `json:"accept"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = NormalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.Phone == "" || req.Password == "" || req.ConfirmPassword == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if !req.Accept {
		writeJsonError(w, errorTermsNotAccepted)
		return
	}
	if ValidateName(req.FirstName) != nil || ValidateName(req.LastName) != nil {
		writeJsonError(w, errorInvalidName)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if err := ValidatePhone(req.Phone); err != nil {
		writeJsonError(w, errorInvalidPhone)
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

	hashedPassword, err := crypto.GenerateHash(req.Password)
	if err != nil {
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	newUser := db.User{
		Email:    req.Email,
		Name:     req.FirstName + " " + req.LastName,
		Phone:    req.Phone,
		Password: hashedPassword,
		Verified: false,
		Oauth2:   false,
	}

	retrievedUser, err := a.DbAuth().CreateUserWithPassword(newUser)
	if err != nil {
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	// On email conflict CreateUserWithPassword keeps the stored hash, so a
	// differing returned password means the address is taken.
	if retrievedUser.Password != newUser.Password {
		writeJsonError(w, errorEmailConflict)
		return
	}

	cfg := a.Config()
	cooldownBucket := queue.CoolDownBucket(cfg.RateLimits.ActivationEmailCooldown.Duration, time.Now())

	payload, _ := json.Marshal(queue.PayloadActivationEmail{
		Email:          retrievedUser.Email,
		CooldownBucket: cooldownBucket,
	})
	job := db.Job{
		JobType: queue.JobTypeActivationEmail,
		Payload: payload,
	}

	// The user row is already persisted. A dispatch failure must not roll
	// it back, so the enqueue error is surfaced on its own.
	if err := a.DbQueue().InsertJob(job); err != nil && err != db.ErrConstraintUnique {
		a.Logger().Error("failed to insert activation email job", "error", err, "email", retrievedUser.Email)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeJsonOk(w, okAccountCreated)
}
