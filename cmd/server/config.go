package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	blogpulse "github.com/goliatone/blog-pulse"
)

// Config is the process configuration, loaded from the environment. The
// signing secret has no default on purpose: the service refuses to start
// without one.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`

	DBDriver      string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN         string        `env:"DB_DSN" envDefault:"file:blogpulse.db?cache=shared&_pragma=foreign_keys(1)"`
	DBPingTimeout time.Duration `env:"DB_PING_TIMEOUT" envDefault:"5s"`

	JWTSecret            string   `env:"JWT_SECRET"`
	TokenExpirationHours int      `env:"TOKEN_EXPIRATION_HOURS" envDefault:"168"`
	TokenIssuer          string   `env:"TOKEN_ISSUER" envDefault:"blog-pulse"`
	TokenAudience        []string `env:"TOKEN_AUDIENCE" envSeparator:","`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// AuthConfig adapts the flat env config to the auth configuration interface.
type AuthConfig struct {
	cfg *Config
}

func (a AuthConfig) GetSigningKey() string {
	return a.cfg.JWTSecret
}

func (a AuthConfig) GetTokenExpiration() int {
	return a.cfg.TokenExpirationHours
}

func (a AuthConfig) GetIssuer() string {
	return a.cfg.TokenIssuer
}

func (a AuthConfig) GetAudience() []string {
	return a.cfg.TokenAudience
}

func (a AuthConfig) GetContextKey() string {
	return "user"
}

func (a AuthConfig) GetTokenLookup() string {
	return "header:Authorization"
}

func (a AuthConfig) GetAuthScheme() string {
	return "Bearer"
}

var _ blogpulse.Config = (*AuthConfig)(nil)

// PersistenceConfig feeds the persistence client.
type PersistenceConfig struct {
	DSN         string
	PingTimeout time.Duration
	Debug       bool
}

func (p PersistenceConfig) GetDSN() string {
	return p.DSN
}

func (p PersistenceConfig) GetPingTimeout() time.Duration {
	return p.PingTimeout
}

func (p PersistenceConfig) GetDebug() bool {
	return p.Debug
}

func (p PersistenceConfig) GetDriver() string {
	return ""
}

func (p PersistenceConfig) GetServer() string {
	return p.DSN
}

func (p PersistenceConfig) GetOtelIdentifier() string {
	return ""
}
