package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load builds the configuration in three layers: defaults, the optional TOML
// file at path, then environment overrides for secrets and the database
// path. The result is validated; a missing database path or signing secret
// is a startup-fatal error.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDBFile); v != "" {
		cfg.DBFile = v
	}
	if v := os.Getenv(EnvActivationSecret); v != "" {
		cfg.Jwt.ActivationSecret = v
	}
	if v := os.Getenv(EnvResetSecret); v != "" {
		cfg.Jwt.PasswordResetSecret = v
	}
	if v := os.Getenv(EnvAuthSecret); v != "" {
		cfg.Jwt.AuthSecret = v
	}
	if v := os.Getenv(EnvSmtpPassword); v != "" {
		cfg.Smtp.Password = v
	}
}
