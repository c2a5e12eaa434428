package db

import "errors"

var (
	// ErrConstraintUnique is returned when an insert violates a unique
	// constraint, e.g. a duplicate email or a duplicate cooldown-bucket job.
	ErrConstraintUnique = errors.New("unique constraint violation")

	// ErrUserNotFound is returned by mocks and helpers that promise a user.
	// The store query methods themselves return (nil, nil) for no match.
	ErrUserNotFound = errors.New("user not found")
)

// DbAuth is the persistence boundary for user records.
type DbAuth interface {
	// GetUserByEmail returns the user for the given email.
	// A nil user with nil error indicates no matching record was found.
	GetUserByEmail(email string) (*User, error)

	// GetUserById returns the user for the given id.
	// A nil user with nil error indicates no matching record was found.
	GetUserById(id string) (*User, error)

	// CreateUserWithPassword inserts a password-authenticated user. On email
	// conflict the existing row is returned unchanged unless it had no
	// password yet; callers detect the conflict by comparing the returned
	// password hash with the submitted one.
	CreateUserWithPassword(user User) (*User, error)

	// CreateUserWithOauth2 inserts or upgrades a user authenticated by an
	// OAuth2 provider. OAuth2 users have no password and arrive verified.
	CreateUserWithOauth2(user User) (*User, error)

	// VerifyEmail marks the user's email as verified. Idempotent.
	VerifyEmail(userId string) error

	// UpdatePassword replaces the user's password hash.
	UpdatePassword(userId string, newPassword string) error
}

// DbQueue is the persistence boundary for the outbound notification queue.
type DbQueue interface {
	// InsertJob enqueues a job. Returns ErrConstraintUnique when an
	// equivalent job (same type and payload) is already pending.
	InsertJob(job Job) error

	// Claim atomically marks up to limit pending jobs as processing and
	// returns them.
	Claim(limit int) ([]*Job, error)

	MarkCompleted(jobID int64) error
	MarkFailed(jobID int64, errMsg string) error
}

// DbApp combines the DB roles the application requires. The concrete
// implementation (*zombiezen.Db) must satisfy this interface.
type DbApp interface {
	DbAuth
	DbQueue
}
