package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caasmo/tokengate/config"
	"github.com/caasmo/tokengate/db/mock"
)

func TestListOAuth2Providers(t *testing.T) {
	app := newTestApp(&mock.Db{})

	req := httptest.NewRequest("GET", "/auth/oauth2-providers", nil)
	rec := httptest.NewRecorder()
	app.ListOAuth2ProvidersHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		JsonBasic
		Data OAuth2ProviderListData `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Code != CodeOkOAuth2ProvidersList {
		t.Errorf("code = %q, want %q", resp.Code, CodeOkOAuth2ProvidersList)
	}
	if len(resp.Data.Providers) != 1 {
		t.Fatalf("providers = %d, want 1", len(resp.Data.Providers))
	}

	p := resp.Data.Providers[0]
	if p.Name != "google" {
		t.Errorf("provider name = %q, want google", p.Name)
	}
	if p.State == "" {
		t.Error("state must be set")
	}
	// The default google provider has PKCE enabled.
	if p.CodeVerifier == "" || p.CodeChallenge == "" {
		t.Error("PKCE fields must be set")
	}
	if !strings.Contains(p.AuthURL, "code_challenge=") {
		t.Errorf("auth URL %q carries no code challenge", p.AuthURL)
	}
	if !strings.Contains(p.AuthURL, "state="+p.State) {
		t.Errorf("auth URL %q does not carry the state", p.AuthURL)
	}
}

func TestListOAuth2ProvidersNoneConfigured(t *testing.T) {
	app := newTestApp(&mock.Db{})
	cfg := testConfig()
	cfg.OAuth2Providers = nil
	app.SetConfigProvider(config.NewProvider(cfg))

	req := httptest.NewRequest("GET", "/auth/oauth2-providers", nil)
	rec := httptest.NewRecorder()
	app.ListOAuth2ProvidersHandler(rec, req)

	checkResponse(t, rec, http.StatusBadRequest, CodeErrorInvalidOAuth2Provider)
}

func TestAuthWithOAuth2Validation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing fields", `{"provider":"google","code":""}`, CodeErrorMissingFields},
		{"unknown provider", `{"provider":"gitlab","code":"c","code_verifier":"v","redirect_uri":"https://app/cb"}`, CodeErrorInvalidOAuth2Provider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&mock.Db{})
			rec := doRequest(app.AuthWithOAuth2Handler, "POST", "/auth/oauth2", tt.body)
			checkResponse(t, rec, http.StatusBadRequest, tt.wantCode)
		})
	}
}

// A pure provider account has no password hash; the login must still mint a
// session token.
func TestAuthWithOAuth2PasswordlessLogin(t *testing.T) {
	userinfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"email":"Jane@Example.com","email_verified":true,"name":"Jane Doe"}`)
	}))
	defer userinfoSrv.Close()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"provider-token","token_type":"bearer"}`)
	}))
	defer tokenSrv.Close()

	app := newTestApp(&mock.Db{}) // default store: user unknown, oauth2 create succeeds
	cfg := testConfig()
	cfg.OAuth2Providers = map[string]config.OAuth2Provider{
		"google": {
			Name:         "google",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			TokenURL:     tokenSrv.URL,
			UserInfoURL:  userinfoSrv.URL,
		},
	}
	app.SetConfigProvider(config.NewProvider(cfg))

	body := `{"provider":"google","code":"c","code_verifier":"v","redirect_uri":"https://app/cb"}`
	rec := doRequest(app.AuthWithOAuth2Handler, "POST", "/auth/oauth2", body)
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
	if resp.Data.AccessToken == "" {
		t.Error("session token must be issued for a passwordless account")
	}
	if resp.Data.Record.Email != "jane@example.com" {
		t.Errorf("record email = %q, want jane@example.com", resp.Data.Record.Email)
	}
}
