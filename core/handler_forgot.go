package core

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/queue"
)

// ForgotPasswordHandler handles password reset requests.
// Endpoint: POST /auth/forgot
// Authenticated: No
// Allowed Mimetype: application/json
//
// Security notes:
// - Sending emails is an expensive operation and a potential spam vector,
//   so requests are rate limited via cooldown buckets in the job queue.
// - The response is the identical 200 whether or not the address exists,
//   and the email leaves through the async queue, so neither shape nor
//   timing reveals account existence.
func (a *App) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = NormalizeEmail(req.Email)
	if req.Email == "" {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	// Unknown address, unverified account, password-less OAuth2 account:
	// none of these get an email, all of them get the standard response.
	if user == nil || !user.Verified || user.Password == "" {
		writeJsonOk(w, okPasswordResetRequested)
		return
	}

	cfg := a.Config()
	cooldownBucket := queue.CoolDownBucket(cfg.RateLimits.PasswordResetCooldown.Duration, time.Now())

	// Second insertion in the same bucket fails the unique constraint,
	// which is the rate limit doing its job. Still the standard response.
	payload, _ := json.Marshal(queue.PayloadPasswordResetEmail{
		UserID:         user.ID,
		CooldownBucket: cooldownBucket,
	})
	payloadExtra, _ := json.Marshal(queue.PayloadPasswordResetEmailExtra{
		Email: req.Email,
	})
	job := db.Job{
		JobType:      queue.JobTypePasswordResetEmail,
		Payload:      payload,
		PayloadExtra: payloadExtra,
	}

	if err := a.DbQueue().InsertJob(job); err != nil && err != db.ErrConstraintUnique {
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeJsonOk(w, okPasswordResetRequested)
}
