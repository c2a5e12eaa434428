package queue

import (
	"time"
)

// Job types
const (
	JobTypeActivationEmail    = "job_type_activation_email"
	JobTypePasswordResetEmail = "job_type_password_reset_email"
)

// Job statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// PayloadActivationEmail is the unique payload of an activation email job.
// CooldownBucket is the time bucket number calculated from the current time
// divided by the cooldown duration. Only one activation email per bucket can
// be enqueued for an address; the unique constraint on (job_type, payload)
// rejects the rest.
type PayloadActivationEmail struct {
	Email          string `json:"email"`
	CooldownBucket int    `json:"cooldown_bucket"`
}

// PayloadPasswordResetEmail is the unique payload of a password reset email
// job. The user id, not the email, keys the cooldown so an email change does
// not reset the limit.
type PayloadPasswordResetEmail struct {
	UserID         string `json:"user_id"`
	CooldownBucket int    `json:"cooldown_bucket"`
}

// PayloadPasswordResetEmailExtra carries the non-unique part of the reset
// job: the address the mail goes to.
type PayloadPasswordResetEmailExtra struct {
	Email string `json:"email"`
}

// CoolDownBucket calculates which time bucket t falls into based on the
// duration period: floor(t.Unix() / duration). All requests within the same
// window share a bucket number, so the queue's unique constraint allows at
// most one job per window.
//
// Panics if duration is zero or negative to prevent undefined behavior.
func CoolDownBucket(duration time.Duration, t time.Time) int {
	if duration <= 0 {
		panic("duration must be positive")
	}

	return int(t.Unix() / int64(duration.Seconds()))
}
