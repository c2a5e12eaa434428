package config

import (
	"fmt"
	"time"
)

// Environment variable names for values that must never live in the TOML
// file. Secrets set in the environment override whatever the file contains.
const (
	EnvDBFile           = "TOKENGATE_DB_FILE"
	EnvActivationSecret = "TOKENGATE_ACTIVATION_SECRET"
	EnvResetSecret      = "TOKENGATE_RESET_SECRET"
	EnvAuthSecret       = "TOKENGATE_AUTH_SECRET"
	EnvSmtpPassword     = "TOKENGATE_SMTP_PASSWORD"
)

// Duration wraps time.Duration so TOML files can carry values like "45m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Jwt holds one signing secret and token lifetime per token purpose.
type Jwt struct {
	AuthSecret                string   `toml:"auth_secret"`
	AuthTokenDuration         Duration `toml:"auth_token_duration"`
	ActivationSecret          string   `toml:"activation_secret"`
	ActivationTokenDuration   Duration `toml:"activation_token_duration"`
	PasswordResetSecret       string   `toml:"password_reset_secret"`
	PasswordResetTokenDuration Duration `toml:"password_reset_token_duration"`
}

type Server struct {
	Addr                    string   `toml:"addr"`
	BaseUrl                 string   `toml:"base_url"`
	ShutdownGracefulTimeout Duration `toml:"shutdown_graceful_timeout"`
	ReadTimeout             Duration `toml:"read_timeout"`
	ReadHeaderTimeout       Duration `toml:"read_header_timeout"`
	WriteTimeout            Duration `toml:"write_timeout"`
	IdleTimeout             Duration `toml:"idle_timeout"`
}

// BaseURL returns the externally reachable URL used in emailed links.
func (s *Server) BaseURL() string {
	if s.BaseUrl != "" {
		return s.BaseUrl
	}
	return "http://" + s.Addr
}

type Scheduler struct {
	Interval              Duration `toml:"interval"`
	MaxJobsPerTick        int      `toml:"max_jobs_per_tick"`
	ConcurrencyMultiplier int      `toml:"concurrency_multiplier"`
	JobTimeout            Duration `toml:"job_timeout"`
}

type Smtp struct {
	Enabled     bool   `toml:"enabled"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	FromName    string `toml:"from_name"`
	FromAddress string `toml:"from_address"`
	SendTimeout Duration `toml:"send_timeout"`
}

type RateLimits struct {
	ActivationEmailCooldown Duration `toml:"activation_email_cooldown"`
	PasswordResetCooldown   Duration `toml:"password_reset_cooldown"`
}

type OAuth2Provider struct {
	Name         string   `toml:"name"`
	DisplayName  string   `toml:"display_name"`
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	RedirectURL  string   `toml:"redirect_url"`
	AuthURL      string   `toml:"auth_url"`
	TokenURL     string   `toml:"token_url"`
	UserInfoURL  string   `toml:"user_info_url"`
	Scopes       []string `toml:"scopes"`
	PKCE         bool     `toml:"pkce"`
}

type Config struct {
	DBFile          string                    `toml:"db_file"`
	Jwt             Jwt                       `toml:"jwt"`
	Server          Server                    `toml:"server"`
	Scheduler       Scheduler                 `toml:"scheduler"`
	Smtp            Smtp                      `toml:"smtp"`
	RateLimits      RateLimits                `toml:"rate_limits"`
	OAuth2Providers map[string]OAuth2Provider `toml:"oauth2_providers"`
}
