package config

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultSensitiveKeywords is the built-in list of topics that always go to a
// human. English only.
var DefaultSensitiveKeywords = []string{
	"refund",
	"charge",
	"billing",
	"cancel subscription",
	"delete account",
	"terminate",
	"legal",
}

func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Host:                "0.0.0.0",
			Port:                3000,
			WebhookPath:         "/webhook",
			MaxBodyBytes:        1 << 20,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 90,
		},
		Zendesk: ZendeskConfig{
			TimeoutSeconds: 15,
		},
		Drafter: DrafterConfig{
			Provider:       ProviderOpenAI,
			Model:          "gpt-4o-mini",
			MaxTokens:      400,
			TimeoutSeconds: 45,
			Signature:      "The Support Team",
		},
		Review: ReviewConfig{
			PostFlagNotes: false,
			Keywords:      append([]string(nil), DefaultSensitiveKeywords...),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
