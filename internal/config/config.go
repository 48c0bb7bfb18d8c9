// ABOUTME: Configuration loading and parsing for the portfolio server
// ABOUTME: YAML or TOML files with ${VAR} expansion, .env loading and env var overlay

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Database drivers
const (
	DriverSQLite   = "sqlite"  // modernc.org/sqlite, pure Go
	DriverSQLite3  = "sqlite3" // mattn/go-sqlite3, cgo
	DriverPostgres = "postgres"
)

// MinJWTSecretLength mirrors the token service's minimum key size so a weak
// secret fails at startup rather than at first login.
const MinJWTSecretLength = 32

// DefaultVercelAPI is the Vercel REST API base URL.
const DefaultVercelAPI = "https://api.vercel.com"

// Config represents the complete portfolio server configuration
type Config struct {
	Env       string          `yaml:"env" toml:"env" env:"PORTFOLIO_ENV"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Site      SiteConfig      `yaml:"site" toml:"site"`
	Contact   ContactConfig   `yaml:"contact" toml:"contact"`
	Vercel    VercelConfig    `yaml:"vercel" toml:"vercel"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr" toml:"http_addr" env:"PORTFOLIO_HTTP_ADDR"`
	ShutdownTimeout time.Duration `yaml:"-" toml:"-"`

	ShutdownTimeoutRaw string `yaml:"shutdown_timeout" toml:"shutdown_timeout" env:"PORTFOLIO_SHUTDOWN_TIMEOUT"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled" env:"PORTFOLIO_TAILSCALE_ENABLED"`
	Hostname  string `yaml:"hostname" toml:"hostname" env:"PORTFOLIO_TAILSCALE_HOSTNAME"`
	AuthKey   string `yaml:"auth_key" toml:"auth_key" env:"TS_AUTHKEY"`
	StateDir  string `yaml:"state_dir" toml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral" toml:"ephemeral"`
	HTTPS     bool   `yaml:"https" toml:"https"`   // tailnet-only HTTPS with Tailscale certs
	Funnel    bool   `yaml:"funnel" toml:"funnel"` // public HTTPS via Funnel
}

// DatabaseConfig selects the store driver and its location
type DatabaseConfig struct {
	Driver string `yaml:"driver" toml:"driver" env:"PORTFOLIO_DB_DRIVER"`
	Path   string `yaml:"path" toml:"path" env:"PORTFOLIO_DB_PATH"`
	URL    string `yaml:"url" toml:"url" env:"DATABASE_URL"`
}

// AuthConfig holds admin session configuration
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" toml:"jwt_secret" env:"PORTFOLIO_JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"-" toml:"-"`

	TokenTTLRaw string `yaml:"token_ttl" toml:"token_ttl" env:"PORTFOLIO_TOKEN_TTL"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" env:"PORTFOLIO_LOG_LEVEL"`
	Format string `yaml:"format" toml:"format" env:"PORTFOLIO_LOG_FORMAT"`
}

// SiteConfig holds public-facing site metadata
type SiteConfig struct {
	Title   string `yaml:"title" toml:"title"`
	Owner   string `yaml:"owner" toml:"owner"`
	Tagline string `yaml:"tagline" toml:"tagline"`
	BaseURL string `yaml:"base_url" toml:"base_url" env:"PORTFOLIO_BASE_URL"`
}

// ContactConfig configures where contact form submissions are announced.
// Every notifier is optional.
type ContactConfig struct {
	SlackWebhookURL string         `yaml:"slack_webhook_url" toml:"slack_webhook_url" env:"SLACK_WEBHOOK_URL"`
	Matrix          MatrixConfig   `yaml:"matrix" toml:"matrix"`
	Postmark        PostmarkConfig `yaml:"postmark" toml:"postmark"`
}

// MatrixConfig holds the Matrix account and room used for notifications
type MatrixConfig struct {
	Homeserver  string `yaml:"homeserver" toml:"homeserver" env:"MATRIX_HOMESERVER"`
	UserID      string `yaml:"user_id" toml:"user_id" env:"MATRIX_USER_ID"`
	AccessToken string `yaml:"access_token" toml:"access_token" env:"MATRIX_ACCESS_TOKEN"`
	RoomID      string `yaml:"room_id" toml:"room_id" env:"MATRIX_ROOM_ID"`
}

// Enabled reports whether all Matrix settings are present.
func (m MatrixConfig) Enabled() bool {
	return m.Homeserver != "" && m.UserID != "" && m.AccessToken != "" && m.RoomID != ""
}

// PostmarkConfig holds the Postmark server token and addresses for email notifications
type PostmarkConfig struct {
	ServerToken  string `yaml:"server_token" toml:"server_token" env:"POSTMARK_SERVER_TOKEN"`
	AccountToken string `yaml:"account_token" toml:"account_token" env:"POSTMARK_ACCOUNT_TOKEN"`
	From         string `yaml:"from" toml:"from" env:"POSTMARK_FROM"`
	To           string `yaml:"to" toml:"to" env:"POSTMARK_TO"`
}

// Enabled reports whether email notifications can be sent.
func (p PostmarkConfig) Enabled() bool {
	return p.ServerToken != "" && p.From != "" && p.To != ""
}

// VercelConfig holds the read-only deployment integration settings
type VercelConfig struct {
	Token       string `yaml:"token" toml:"token" env:"VERCEL_ACCESS_TOKEN"`
	ProjectID   string `yaml:"project_id" toml:"project_id" env:"VERCEL_PROJECT_ID"`
	ProjectName string `yaml:"project_name" toml:"project_name" env:"VERCEL_PROJECT_NAME"`
	TeamID      string `yaml:"team_id" toml:"team_id" env:"VERCEL_TEAM_ID"`
	BaseURL     string `yaml:"base_url" toml:"base_url"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
//
// A .env file in the working directory (or next to the config file) is loaded
// first without overriding the real environment. ${VAR_NAME} references in the
// file are expanded, then well-known environment variables override file
// values. An empty path builds the configuration from the environment alone.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(path); err != nil {
		return nil, err
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := decode(path, expandEnvVars(string(data)), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	applyDefaults(&cfg)

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv loads .env files if present. Missing files are not an error.
func loadDotEnv(configPath string) error {
	candidates := []string{".env"}
	if configPath != "" {
		if dir := filepath.Dir(configPath); dir != "." {
			candidates = append(candidates, filepath.Join(dir, ".env"))
		}
	}

	for _, candidate := range candidates {
		if err := godotenv.Load(candidate); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", candidate, err)
		}
	}
	return nil
}

// decode picks the format from the file extension. YAML is the default.
func decode(path, data string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(data, cfg)
		return err
	default:
		return yaml.Unmarshal([]byte(data), cfg)
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Server.ShutdownTimeoutRaw == "" {
		cfg.Server.ShutdownTimeoutRaw = "10s"
	}
	if cfg.Vercel.BaseURL == "" {
		cfg.Vercel.BaseURL = DefaultVercelAPI
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Portfolio"
	}
}

// IsProduction reports whether the server runs in production. It controls the
// Secure attribute of the session cookie.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}

	// The server address is required unless Tailscale is enabled
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required (or enable tailscale)")
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverSQLite3:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for driver %q", c.Database.Driver)
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", MinJWTSecretLength)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Server.ShutdownTimeoutRaw != "" {
		cfg.Server.ShutdownTimeout, err = time.ParseDuration(cfg.Server.ShutdownTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing shutdown_timeout %q: %w", cfg.Server.ShutdownTimeoutRaw, err)
		}
	}

	if cfg.Auth.TokenTTLRaw != "" {
		cfg.Auth.TokenTTL, err = time.ParseDuration(cfg.Auth.TokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing token_ttl %q: %w", cfg.Auth.TokenTTLRaw, err)
		}
	}

	return nil
}
