package core

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/queue"
)

// ResendActivationHandler requests a fresh activation email.
// Endpoint: POST /auth/resend-activation
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) ResendActivationHandler(w http.ResponseWriter, r *http.Request) {
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

	// Success shape even when the address is unknown, to prevent email
	// enumeration.
	if user == nil {
		writeJsonOk(w, okActivationRequested)
		return
	}

	if user.Verified {
		writeJsonOk(w, okAlreadyVerified)
		return
	}

	cfg := a.Config()
	cooldownBucket := queue.CoolDownBucket(cfg.RateLimits.ActivationEmailCooldown.Duration, time.Now())

	payload, _ := json.Marshal(queue.PayloadActivationEmail{
		Email:          req.Email,
		CooldownBucket: cooldownBucket,
	})
	job := db.Job{
		JobType: queue.JobTypeActivationEmail,
		Payload: payload,
	}

	if err := a.DbQueue().InsertJob(job); err != nil {
		if err == db.ErrConstraintUnique {
			writeJsonError(w, errorActivationAlreadyRequested)
			return
		}
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeJsonOk(w, okActivationRequested)
}
