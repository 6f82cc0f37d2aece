package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Rules    RulesConfig       `yaml:"rules"`
	History  HistoryConfig     `yaml:"history"`
	Ollama   OllamaConfig      `yaml:"ollama"`
	Pipeline PipelineConfig    `yaml:"pipeline"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	if err := c.Ollama.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// RulesConfig holds the path of the persisted ruleset document.
type RulesConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the rules configuration.
func (c *RulesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// HistoryConfig holds the activity-log database path. An empty path
// disables the activity log.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// OllamaConfig holds naming-backend connection settings.
type OllamaConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call timeout for naming-backend requests.
func (c *OllamaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the Ollama configuration.
func (c *OllamaConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
	)
}

// PipelineConfig holds event-pipeline tuning knobs.
type PipelineConfig struct {
	SettleMS           int `yaml:"settle_ms"`
	SuppressTTLSeconds int `yaml:"suppress_ttl_seconds"`
}

// SettleDelay returns the pause applied after observing or moving a file.
func (c *PipelineConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleMS) * time.Millisecond
}

// SuppressTTL returns the dedup-guard entry lifetime.
func (c *PipelineConfig) SuppressTTL() time.Duration {
	return time.Duration(c.SuppressTTLSeconds) * time.Second
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8000,
			},
		},
		Rules: RulesConfig{
			Path: "./raido_rules.json",
		},
		History: HistoryConfig{
			Path: "./raido.db",
		},
		Ollama: OllamaConfig{
			Endpoint:       "http://localhost:11434",
			TimeoutSeconds: 60,
		},
		Pipeline: PipelineConfig{
			SettleMS:           500,
			SuppressTTLSeconds: 5,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
