package core

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/caasmo/tokengate/crypto"
	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/db/mock"
)

func activationTestUser(t *testing.T) *db.User {
	t.Helper()
	hash, err := crypto.GenerateHash("password1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &db.User{
		ID:       "user-1",
		Email:    "jane@example.com",
		Password: hash,
		Verified: false,
	}
}

func mintActivationToken(t *testing.T, user *db.User, duration time.Duration) string {
	t.Helper()
	token, err := crypto.NewJwtActivationToken(user.ID, user.Email, user.Password, testSecret, duration)
	if err != nil {
		t.Fatalf("failed to mint activation token: %v", err)
	}
	return token
}

func TestActivateSuccess(t *testing.T) {
	user := activationTestUser(t)
	token := mintActivationToken(t, user, 15*time.Minute)

	var verifiedID string
	mockDb := &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			if id != user.ID {
				return nil, nil
			}
			return user, nil
		},
		VerifyEmailFunc: func(userId string) error {
			verifiedID = userId
			return nil
		},
	}
	app := newTestApp(mockDb)

	rec := doRequest(app.ActivateHandler, "PUT", "/auth/activate", fmt.Sprintf(`{"token":%q}`, token))
	checkResponse(t, rec, http.StatusOK, CodeOkEmailVerified)

	if verifiedID != user.ID {
		t.Errorf("VerifyEmail called with %q, want %q", verifiedID, user.ID)
	}
}

func TestActivateAlreadyVerified(t *testing.T) {
	user := activationTestUser(t)
	token := mintActivationToken(t, user, 15*time.Minute)
	user.Verified = true

	var verifyCalled bool
	mockDb := &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) { return user, nil },
		VerifyEmailFunc: func(userId string) error {
			verifyCalled = true
			return nil
		},
	}
	app := newTestApp(mockDb)

	rec := doRequest(app.ActivateHandler, "PUT", "/auth/activate", fmt.Sprintf(`{"token":%q}`, token))
	checkResponse(t, rec, http.StatusBadRequest, CodeErrorAlreadyVerified)

	if verifyCalled {
		t.Error("VerifyEmail must not be called for an already verified account")
	}
}

// A valid token activates once; the same token replayed reports the
// verified state instead of activating again.
func TestActivateReplayRejected(t *testing.T) {
	user := activationTestUser(t)
	token := mintActivationToken(t, user, 15*time.Minute)

	var verifyCalls int
	mockDb := &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) { return user, nil },
		VerifyEmailFunc: func(userId string) error {
			verifyCalls++
			user.Verified = true
			return nil
		},
	}
	app := newTestApp(mockDb)

	body := fmt.Sprintf(`{"token":%q}`, token)
	rec := doRequest(app.ActivateHandler, "PUT", "/auth/activate", body)
	checkResponse(t, rec, http.StatusOK, CodeOkEmailVerified)

	rec = doRequest(app.ActivateHandler, "PUT", "/auth/activate", body)
	checkResponse(t, rec, http.StatusBadRequest, CodeErrorAlreadyVerified)

	if verifyCalls != 1 {
		t.Errorf("VerifyEmail called %d times, want 1", verifyCalls)
	}
}

func TestActivateTokenFailures(t *testing.T) {
	user := activationTestUser(t)

	resetToken, err := crypto.NewJwtPasswordResetToken(user.ID, user.Email, user.Password, testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("failed to mint reset token: %v", err)
	}
	tamperedToken, err := crypto.NewJwtActivationToken(user.ID, user.Email, user.Password, "wrong-secret-wrong-secret-wrong!", 15*time.Minute)
	if err != nil {
		t.Fatalf("failed to mint tampered token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage token", "not.a.jwt"},
		{"wrong purpose", resetToken},
		{"expired", mintActivationToken(t, user, -1*time.Minute)},
		{"wrong signing secret", tamperedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDb := &mock.Db{
				GetUserByIdFunc: func(id string) (*db.User, error) { return user, nil },
			}
			app := newTestApp(mockDb)

			rec := doRequest(app.ActivateHandler, "PUT", "/auth/activate", fmt.Sprintf(`{"token":%q}`, tt.token))
			checkResponse(t, rec, http.StatusInternalServerError, CodeErrorInvalidVerificationToken)
		})
	}
}

func TestActivateAccountGone(t *testing.T) {
	user := activationTestUser(t)
	token := mintActivationToken(t, user, 15*time.Minute)

	app := newTestApp(&mock.Db{}) // default mock: user not found

	rec := doRequest(app.ActivateHandler, "PUT", "/auth/activate", fmt.Sprintf(`{"token":%q}`, token))
	checkResponse(t, rec, http.StatusBadRequest, CodeErrorAccountNotFound)
}

func TestActivateMissingToken(t *testing.T) {
	app := newTestApp(&mock.Db{})
	rec := doRequest(app.ActivateHandler, "PUT", "/auth/activate", `{"token":""}`)
	checkResponse(t, rec, http.StatusBadRequest, CodeErrorMissingFields)
}
