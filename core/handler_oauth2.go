package core

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/caasmo/tokengate/crypto"
	oauth2provider "github.com/caasmo/tokengate/oauth2"
	"golang.org/x/oauth2"
)

// oauth2TokenExchangeTimeout bounds the token exchange so an unresponsive
// provider cannot hang the request.
const oauth2TokenExchangeTimeout = 10 * time.Second

// OAuth2ProviderInfo contains the provider details needed for client-side OAuth2 flow
type OAuth2ProviderInfo struct {
	Name                string `json:"name"`
	DisplayName         string `json:"displayName"`
	State               string `json:"state"`
	AuthURL             string `json:"authURL"`
	RedirectURL         string `json:"redirectURL"`
	CodeVerifier        string `json:"codeVerifier,omitempty"`
	CodeChallenge       string `json:"codeChallenge,omitempty"`
	CodeChallengeMethod string `json:"codeChallengeMethod,omitempty"`
}

// OAuth2ProviderListData wraps the list of providers for standardized response
type OAuth2ProviderListData struct {
	Providers []OAuth2ProviderInfo `json:"providers"`
}

// ListOAuth2ProvidersHandler returns available OAuth2 providers.
// Endpoint: GET /auth/oauth2-providers
// Authenticated: No
//
// Example response:
//
//	{
//	  "status": 200,
//	  "code": "ok_oauth2_providers_list",
//	  "message": "OAuth2 providers list",
//	  "data": {
//	    "providers": [
//	      {
//	        "name": "google",
//	        "displayName": "Google",
//	        "state": "random-state-string",
//	        "authURL": "https://..."
//	      }
//	    ]
//	  }
//	}
func (a *App) ListOAuth2ProvidersHandler(w http.ResponseWriter, r *http.Request) {
	var providers []OAuth2ProviderInfo

	cfg := a.Config()
	for name, provider := range cfg.OAuth2Providers {
		state := crypto.Oauth2State()
		oauth2Config := oauth2.Config{
			ClientID:     provider.ClientID,
			ClientSecret: provider.ClientSecret,
			RedirectURL:  provider.RedirectURL,
			Scopes:       provider.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  provider.AuthURL,
				TokenURL: provider.TokenURL,
			},
		}

		info := OAuth2ProviderInfo{
			Name:        name,
			DisplayName: provider.DisplayName,
			State:       state,
			RedirectURL: provider.RedirectURL,
		}

		if provider.PKCE {
			codeVerifier := crypto.Oauth2CodeVerifier()
			codeChallenge := crypto.S256Challenge(codeVerifier)
			info.AuthURL = oauth2Config.AuthCodeURL(state,
				oauth2.SetAuthURLParam("code_challenge", codeChallenge),
				oauth2.SetAuthURLParam("code_challenge_method", crypto.PKCECodeChallengeMethod),
			)
			info.CodeVerifier = codeVerifier
			info.CodeChallenge = codeChallenge
			info.CodeChallengeMethod = crypto.PKCECodeChallengeMethod
		} else {
			info.AuthURL = oauth2Config.AuthCodeURL(state)
		}

		providers = append(providers, info)
	}

	if len(providers) == 0 {
		writeJsonError(w, errorInvalidOAuth2Provider)
		return
	}

	response := JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkOAuth2ProvidersList,
			Message: "OAuth2 providers list",
		},
		Data: OAuth2ProviderListData{Providers: providers},
	}
	writeJsonWithData(w, response)
}

type oauth2Request struct {
	Provider     string `json:"provider"`
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
	RedirectURI  string `json:"redirect_uri"`
}

// AuthWithOAuth2Handler exchanges an authorization code for a provider
// token, fetches the user info and logs the user in, creating the account
// on first sight.
// Endpoint: POST /auth/oauth2
// Authenticated: No
// Allowed Mimetype: application/json
//
// Concurrency: two goroutines may race on the same email (two providers,
// or provider vs password signup). There is no transaction; the UNIQUE
// constraint on email plus the ON CONFLICT clauses of CreateUserWithOauth2
// and CreateUserWithPassword keep the row consistent, each write only
// touching the fields of its own auth method.
func (a *App) AuthWithOAuth2Handler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req oauth2Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	if req.Provider == "" || req.Code == "" || req.CodeVerifier == "" || req.RedirectURI == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	cfg := a.Config()
	provider, ok := cfg.OAuth2Providers[req.Provider]
	if !ok {
		writeJsonError(w, errorInvalidOAuth2Provider)
		return
	}

	oauth2Config := oauth2.Config{
		ClientID:     provider.ClientID,
		ClientSecret: provider.ClientSecret,
		RedirectURL:  req.RedirectURI,
		Scopes:       provider.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  provider.AuthURL,
			TokenURL: provider.TokenURL,
		},
	}

	ctx, cancel := context.WithTimeout(r.Context(), oauth2TokenExchangeTimeout)
	defer cancel()

	token, err := oauth2Config.Exchange(
		ctx,
		req.Code,
		oauth2.SetAuthURLParam("code_verifier", req.CodeVerifier),
	)
	if err != nil {
		a.Logger().Debug("oauth2 token exchange failed", "provider", req.Provider, "error", err)
		writeJsonError(w, errorOAuth2TokenExchangeFailed)
		return
	}

	client := oauth2Config.Client(ctx, token)
	resp, err := client.Get(provider.UserInfoURL)
	if err != nil {
		writeJsonError(w, errorOAuth2UserInfoFailed)
		return
	}
	defer resp.Body.Close()

	oauthUser, err := oauth2provider.UserFromUserInfoURL(resp, provider.Name)
	if err != nil {
		a.Logger().Debug("failed to map provider user info", "provider", req.Provider, "error", err)
		writeJsonError(w, errorOAuth2UserInfoFailed)
		return
	}

	oauthUser.Email = NormalizeEmail(oauthUser.Email)
	if oauthUser.Email == "" || ValidateEmail(oauthUser.Email) != nil {
		writeJsonError(w, errorOAuth2UserInfoFailed)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(oauthUser.Email)
	if err != nil {
		writeJsonError(w, errorOAuth2DatabaseError)
		return
	}

	if user == nil || !user.Oauth2 {
		user, err = a.DbAuth().CreateUserWithOauth2(*oauthUser)
		if err != nil {
			writeJsonError(w, errorOAuth2DatabaseError)
			return
		}
	}

	jwtToken, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Password, cfg.Jwt.AuthSecret, cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		writeJsonError(w, errorTokenGeneration)
		return
	}

	writeAuthResponse(w, jwtToken, int(cfg.Jwt.AuthTokenDuration.Duration.Seconds()), user)
}
