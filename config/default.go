package config

import (
	"time"
)

// NewDefaultConfig creates a new Config with sensible defaults. Secrets are
// deliberately left empty: they must come from the TOML file or the
// environment, and validation treats their absence as fatal.
func NewDefaultConfig() *Config {
	return &Config{
		DBFile: "tokengate.db",
		Jwt: Jwt{
			AuthTokenDuration:          Duration{Duration: 45 * time.Minute},
			ActivationTokenDuration:    Duration{Duration: 24 * time.Hour},
			PasswordResetTokenDuration: Duration{Duration: 1 * time.Hour},
		},
		Server: Server{
			Addr:                    ":8080",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 2 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 3 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
		},
		Scheduler: Scheduler{
			Interval:              Duration{Duration: 15 * time.Second},
			MaxJobsPerTick:        10,
			ConcurrencyMultiplier: 2,
			JobTimeout:            Duration{Duration: 1 * time.Minute},
		},
		Smtp: Smtp{
			Enabled:     false,
			Host:        "smtp.gmail.com",
			Port:        587,
			FromName:    "Tokengate",
			FromAddress: "",
			SendTimeout: Duration{Duration: 30 * time.Second},
		},
		RateLimits: RateLimits{
			ActivationEmailCooldown: Duration{Duration: 1 * time.Hour},
			PasswordResetCooldown:   Duration{Duration: 2 * time.Hour},
		},
		OAuth2Providers: map[string]OAuth2Provider{
			"google": {
				Name:        "google",
				DisplayName: "Google",
				AuthURL:     "https://accounts.google.com/o/oauth2/v2/auth",
				TokenURL:    "https://oauth2.googleapis.com/token",
				UserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.profile",
					"https://www.googleapis.com/auth/userinfo.email",
				},
				PKCE: true,
			},
		},
	}
}
