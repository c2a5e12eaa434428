package core

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/caasmo/tokengate/crypto"
	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/db/mock"
)

func TestLoginSuccess(t *testing.T) {
	hash, err := crypto.GenerateHash("password1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &db.User{ID: "user-1", Email: "jane@example.com", Name: "Jane Doe", Password: hash, Verified: true}

	mockDb := &mock.Db{
		GetUserByEmailFunc: func(email string) (*db.User, error) { return user, nil },
	}
	app := newTestApp(mockDb)

	rec := doRequest(app.LoginHandler, "POST", "/auth/login", `{"email":"jane@example.com","password":"password1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		JsonBasic
		Data AuthData `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Code != CodeOkAuthentication {
		t.Errorf("code = %q, want %q", resp.Code, CodeOkAuthentication)
	}
	if resp.Data.TokenType != "Bearer" {
		t.Errorf("token type = %q, want Bearer", resp.Data.TokenType)
	}
	if resp.Data.Record.Email != user.Email {
		t.Errorf("record email = %q, want %q", resp.Data.Record.Email, user.Email)
	}

	// The session token must verify with the key derived from the user's
	// credentials and the auth secret.
	key, err := crypto.NewJwtSigningKeyWithCredentials(user.Email, user.Password, testSecret)
	if err != nil {
		t.Fatalf("failed to derive session key: %v", err)
	}
	claims, err := crypto.ParseJwt(resp.Data.AccessToken, key)
	if err != nil {
		t.Fatalf("session token does not verify: %v", err)
	}
	if claims[crypto.ClaimUserID] != user.ID {
		t.Errorf("user_id claim = %v, want %q", claims[crypto.ClaimUserID], user.ID)
	}
}

func TestLoginFailures(t *testing.T) {
	hash, err := crypto.GenerateHash("password1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &db.User{ID: "user-1", Email: "jane@example.com", Password: hash}

	tests := []struct {
		name       string
		body       string
		user       *db.User
		wantStatus int
		wantCode   string
	}{
		{"unknown user", `{"email":"jane@example.com","password":"password1"}`, nil, http.StatusUnauthorized, CodeErrorInvalidCredentials},
		{"wrong password", `{"email":"jane@example.com","password":"wrongpass1"}`, user, http.StatusUnauthorized, CodeErrorInvalidCredentials},
		{"invalid email", `{"email":"nope","password":"password1"}`, nil, http.StatusBadRequest, CodeErrorInvalidRequest},
		{"missing fields", `{"email":"","password":""}`, nil, http.StatusBadRequest, CodeErrorInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDb := &mock.Db{
				GetUserByEmailFunc: func(email string) (*db.User, error) { return tt.user, nil },
			}
			app := newTestApp(mockDb)
			rec := doRequest(app.LoginHandler, "POST", "/auth/login", tt.body)
			checkResponse(t, rec, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	hash, err := crypto.GenerateHash("password1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	var lookedUp string
	mockDb := &mock.Db{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			lookedUp = email
			return &db.User{ID: "user-1", Email: email, Password: hash, Verified: true}, nil
		},
	}
	app := newTestApp(mockDb)

	rec := doRequest(app.LoginHandler, "POST", "/auth/login", `{"email":"Jane@Example.COM","password":"password1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if lookedUp != "jane@example.com" {
		t.Errorf("store queried with %q, want jane@example.com", lookedUp)
	}
}
