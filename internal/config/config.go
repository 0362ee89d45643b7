// Package config loads the deployment settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/melih/lighthouse-hook/internal/core/domain"
)

const (
	DefaultPullTimeout     = 10 * time.Minute
	DefaultRunTimeout      = 2 * time.Minute
	DefaultCallbackTimeout = 15 * time.Second
	DefaultCallbackContext = "Continuous deployment on Falcon"

	// MetricsRoute is served next to the webhook, so it cannot be a secret.
	MetricsRoute = "metrics"
)

// Config is built once at startup and never mutated afterwards.
type Config struct {
	ImageName       string
	ContainerName   string
	VirtualHost     string
	LetsEncryptHost string
	Network         string
	Port            int
	Debug           bool
	Secret          string

	SourceRepoURL   string
	CallbackContext string
	PullTimeout     time.Duration
	RunTimeout      time.Duration
	CallbackTimeout time.Duration
}

// Load reads an optional .env file from the working directory, then the
// process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return FromEnv(lookupEnv)
}

// FromEnv builds a Config from lookup, which reports the value of an
// environment variable.
func FromEnv(lookup func(string) string) (*Config, error) {
	cfg := &Config{
		CallbackContext: DefaultCallbackContext,
		PullTimeout:     DefaultPullTimeout,
		RunTimeout:      DefaultRunTimeout,
		CallbackTimeout: DefaultCallbackTimeout,
	}

	for _, v := range envVars {
		val := strings.TrimSpace(lookup(v.name))
		if val == "" {
			if v.required {
				return nil, fmt.Errorf("%s must be set: %w", v.name, domain.ErrConfigurationMissing)
			}
			continue
		}
		if err := v.apply(cfg, val); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", v.name, err)
		}
	}

	if cfg.LetsEncryptHost == "" {
		cfg.LetsEncryptHost = cfg.VirtualHost
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants that cannot be expressed per variable.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT %d is out of range", c.Port)
	}
	if c.Secret == MetricsRoute {
		return fmt.Errorf("UUID must not be %q", MetricsRoute)
	}
	for name, d := range map[string]time.Duration{
		"PULL_TIMEOUT":     c.PullTimeout,
		"RUN_TIMEOUT":      c.RunTimeout,
		"CALLBACK_TIMEOUT": c.CallbackTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	return nil
}

// ListenAddr is the address the webhook server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ContainerEnv is the environment injected into every deployed container.
func (c *Config) ContainerEnv() map[string]string {
	return map[string]string{
		"VIRTUAL_HOST":     c.VirtualHost,
		"LETSENCRYPT_HOST": c.LetsEncryptHost,
	}
}

func parsePort(v string) (int, error) {
	p, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q is not a port number", v)
	}
	return p, nil
}
