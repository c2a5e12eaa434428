package config

import (
	"fmt"
	"net"

	"github.com/caasmo/tokengate/crypto"
)

func Validate(cfg *Config) error {
	if cfg.DBFile == "" {
		return fmt.Errorf("database file is not set (%s)", EnvDBFile)
	}

	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateJwt(&cfg.Jwt); err != nil {
		return fmt.Errorf("jwt config validation failed: %w", err)
	}

	if cfg.Smtp.Enabled && cfg.Smtp.FromAddress == "" {
		return fmt.Errorf("smtp is enabled but from_address is not set")
	}

	return nil
}

// validateJwt enforces the presence and minimum length of every per-purpose
// signing secret. Secrets are the one configuration the service cannot
// invent at runtime without silently invalidating outstanding tokens on
// restart.
func validateJwt(jwt *Jwt) error {
	secrets := []struct {
		name  string
		env   string
		value string
	}{
		{"auth_secret", EnvAuthSecret, jwt.AuthSecret},
		{"activation_secret", EnvActivationSecret, jwt.ActivationSecret},
		{"password_reset_secret", EnvResetSecret, jwt.PasswordResetSecret},
	}

	for _, s := range secrets {
		if s.value == "" {
			return fmt.Errorf("%s is not set (set %s)", s.name, s.env)
		}
		if len(s.value) < crypto.MinSecretLength {
			return fmt.Errorf("%s must be at least %d bytes", s.name, crypto.MinSecretLength)
		}
	}

	for _, d := range []struct {
		name string
		dur  Duration
	}{
		{"auth_token_duration", jwt.AuthTokenDuration},
		{"activation_token_duration", jwt.ActivationTokenDuration},
		{"password_reset_token_duration", jwt.PasswordResetTokenDuration},
	} {
		if d.dur.Duration <= 0 {
			return fmt.Errorf("%s must be positive", d.name)
		}
	}

	return nil
}

// validateServer checks the Server configuration section.
// It ensures the Addr field is not empty and contains a valid host:port or
// :port format. If only a port is provided (e.g., ":8080"), the host
// defaults to "localhost".
func validateServer(server *Server) error {
	if server.Addr == "" {
		return fmt.Errorf("server address (Addr) cannot be empty")
	}

	host, port, err := net.SplitHostPort(server.Addr)
	if err != nil {
		return fmt.Errorf("invalid server address format '%s': %w", server.Addr, err)
	}

	// ":8080" splits into an empty host.
	if host == "" {
		host = "localhost"
	}

	if port == "" {
		return fmt.Errorf("server address '%s' must include a port", server.Addr)
	}

	server.Addr = net.JoinHostPort(host, port)

	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port '%s' in server address '%s': %w", port, server.Addr, err)
	}

	return nil
}
