package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is built once at startup and handed by pointer to every component
// that needs it. Nothing reads the environment after LoadConfig returns.
type Config struct {
	Gateway GatewayConfig `json:"gateway" yaml:"gateway"`
	Zendesk ZendeskConfig `json:"zendesk" yaml:"zendesk"`
	Drafter DrafterConfig `json:"drafter" yaml:"drafter"`
	Review  ReviewConfig  `json:"review"  yaml:"review"`
	Log     LogConfig     `json:"log"     yaml:"log"`
}

type GatewayConfig struct {
	Host                string `env:"TICKETCLAW_GATEWAY_HOST"                  json:"host"                  yaml:"host"`
	Port                int    `env:"TICKETCLAW_GATEWAY_PORT"                  json:"port"                  yaml:"port"`
	WebhookPath         string `env:"TICKETCLAW_GATEWAY_WEBHOOK_PATH"          json:"webhook_path"          yaml:"webhook_path"`
	SharedSecret        string `env:"TICKETCLAW_GATEWAY_SHARED_SECRET"         json:"shared_secret"         yaml:"shared_secret"`
	MaxBodyBytes        int64  `env:"TICKETCLAW_GATEWAY_MAX_BODY_BYTES"        json:"max_body_bytes"        yaml:"max_body_bytes"`
	ReadTimeoutSeconds  int    `env:"TICKETCLAW_GATEWAY_READ_TIMEOUT_SECONDS"  json:"read_timeout_seconds"  yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `env:"TICKETCLAW_GATEWAY_WRITE_TIMEOUT_SECONDS" json:"write_timeout_seconds" yaml:"write_timeout_seconds"`
}

// Addr returns host:port for net.Listen.
func (g GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// ZendeskConfig holds ticketing-system credentials. Either OAuthToken or the
// Email/APIToken pair must be set before the gateway starts.
type ZendeskConfig struct {
	Subdomain      string `env:"TICKETCLAW_ZENDESK_SUBDOMAIN"       json:"subdomain"       yaml:"subdomain"`
	BaseURL        string `env:"TICKETCLAW_ZENDESK_BASE_URL"        json:"base_url"        yaml:"base_url"` // overrides Subdomain
	Email          string `env:"TICKETCLAW_ZENDESK_EMAIL"           json:"email"           yaml:"email"`
	APIToken       string `env:"TICKETCLAW_ZENDESK_API_TOKEN"       json:"api_token"       yaml:"api_token"`
	OAuthToken     string `env:"TICKETCLAW_ZENDESK_OAUTH_TOKEN"     json:"oauth_token"     yaml:"oauth_token"`
	TimeoutSeconds int    `env:"TICKETCLAW_ZENDESK_TIMEOUT_SECONDS" json:"timeout_seconds" yaml:"timeout_seconds"`
}

// APIBase returns the Zendesk API root without a trailing slash.
func (z ZendeskConfig) APIBase() string {
	if base := strings.TrimRight(strings.TrimSpace(z.BaseURL), "/"); base != "" {
		return base
	}
	if z.Subdomain == "" {
		return ""
	}
	return "https://" + z.Subdomain + ".zendesk.com"
}

func (z ZendeskConfig) Timeout() time.Duration {
	return time.Duration(z.TimeoutSeconds) * time.Second
}

type DrafterConfig struct {
	Provider       string   `env:"TICKETCLAW_DRAFTER_PROVIDER"        json:"provider"              yaml:"provider"` // openai | anthropic
	Model          string   `env:"TICKETCLAW_DRAFTER_MODEL"           json:"model"                 yaml:"model"`
	APIKey         string   `env:"TICKETCLAW_DRAFTER_API_KEY"         json:"api_key"               yaml:"api_key"`
	APIBase        string   `env:"TICKETCLAW_DRAFTER_API_BASE"        json:"api_base,omitempty"    yaml:"api_base,omitempty"`
	MaxTokens      int      `env:"TICKETCLAW_DRAFTER_MAX_TOKENS"      json:"max_tokens"            yaml:"max_tokens"`
	Temperature    *float64 `env:"TICKETCLAW_DRAFTER_TEMPERATURE"     json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TimeoutSeconds int      `env:"TICKETCLAW_DRAFTER_TIMEOUT_SECONDS" json:"timeout_seconds"       yaml:"timeout_seconds"`
	Signature      string   `env:"TICKETCLAW_DRAFTER_SIGNATURE"       json:"signature"             yaml:"signature"`
}

func (d DrafterConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

type ReviewConfig struct {
	// PostFlagNotes controls whether the human-review note is actually
	// written to the ticket. The webhook still acknowledges either way.
	PostFlagNotes   bool     `env:"TICKETCLAW_REVIEW_POST_FLAG_NOTES"   json:"post_flag_notes"   yaml:"post_flag_notes"`
	Keywords        []string `env:"TICKETCLAW_REVIEW_KEYWORDS"          json:"keywords"          yaml:"keywords"`
	SlackWebhookURL string   `env:"TICKETCLAW_REVIEW_SLACK_WEBHOOK_URL" json:"slack_webhook_url" yaml:"slack_webhook_url"`
}

type LogConfig struct {
	Level  string `env:"TICKETCLAW_LOG_LEVEL"  json:"level"  yaml:"level"`
	Format string `env:"TICKETCLAW_LOG_FORMAT" json:"format" yaml:"format"` // text | json
}

// LoadConfig reads path (JSON, or YAML for .yaml/.yml), overlays TICKETCLAW_*
// environment variables and validates the result. A missing file is not an
// error: defaults plus environment are used.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decodeFile(path, data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if len(cfg.Review.Keywords) == 0 {
		cfg.Review.Keywords = append([]string(nil), DefaultSensitiveKeywords...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decodeFile(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func SaveConfig(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks structural settings. Credentials are checked separately by
// RequireCredentials so offline commands can run without them.
func (c *Config) Validate() error {
	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("gateway.port %d out of range", c.Gateway.Port)
	}
	if !strings.HasPrefix(c.Gateway.WebhookPath, "/") {
		return fmt.Errorf("gateway.webhook_path %q must start with /", c.Gateway.WebhookPath)
	}
	if c.Gateway.MaxBodyBytes <= 0 {
		return errors.New("gateway.max_body_bytes must be positive")
	}
	switch c.Drafter.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("drafter.provider %q is not supported (want %q or %q)",
			c.Drafter.Provider, ProviderOpenAI, ProviderAnthropic)
	}
	if c.Drafter.MaxTokens <= 0 {
		return errors.New("drafter.max_tokens must be positive")
	}
	return nil
}

// RequireCredentials reports the first missing secret the gateway needs.
func (c *Config) RequireCredentials() error {
	if c.Zendesk.APIBase() == "" {
		return errors.New("zendesk.subdomain or zendesk.base_url is required")
	}
	if c.Zendesk.OAuthToken == "" && (c.Zendesk.Email == "" || c.Zendesk.APIToken == "") {
		return errors.New("zendesk.oauth_token or zendesk.email + zendesk.api_token is required")
	}
	if c.Drafter.APIKey == "" {
		return errors.New("drafter.api_key is required")
	}
	return nil
}
