package oauth2

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/caasmo/tokengate/db"
)

// Provider names matching the keys of the oauth2_providers config table.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// userInfoMaxBody bounds the userinfo response read. Provider payloads are
// small; anything larger is suspect.
const userInfoMaxBody = 1 << 20

// UserFromUserInfoURL maps a provider's userinfo response to a user record.
// Only an email the provider itself reports as verified is accepted, so an
// OAuth2 account always arrives with Verified set.
func UserFromUserInfoURL(resp *http.Response, providerName string) (*db.User, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, userInfoMaxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read userinfo response: %w", err)
	}

	switch providerName {
	case ProviderGoogle:
		return googleUser(data)
	case ProviderGitHub:
		return githubUser(data)
	default:
		return nil, fmt.Errorf("unsupported oauth2 provider %q", providerName)
	}
}

func googleUser(data []byte) (*db.User, error) {
	extracted := struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}{}
	if err := json.Unmarshal(data, &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse google userinfo: %w", err)
	}

	user := &db.User{
		Name:     extracted.Name,
		Oauth2:   true,
		Verified: true,
	}
	if !extracted.EmailVerified {
		return nil, fmt.Errorf("google account email not verified")
	}
	user.Email = extracted.Email
	return user, nil
}

func githubUser(data []byte) (*db.User, error) {
	extracted := struct {
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}{}
	if err := json.Unmarshal(data, &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse github userinfo: %w", err)
	}

	name := extracted.Name
	if name == "" {
		name = extracted.Login
	}

	// GitHub only exposes the primary email here when it is public and
	// verified; a private email comes back empty and the caller rejects it.
	return &db.User{
		Name:     name,
		Email:    extracted.Email,
		Oauth2:   true,
		Verified: true,
	}, nil
}
