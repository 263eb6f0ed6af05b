package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaioption "github.com/openai/openai-go/v3/option"

	"github.com/tinyland-inc/ticketclaw/pkg/config"
	anthropicprovider "github.com/tinyland-inc/ticketclaw/pkg/providers/anthropic"
	openaiprovider "github.com/tinyland-inc/ticketclaw/pkg/providers/openai"
	"github.com/tinyland-inc/ticketclaw/pkg/providers/protocoltypes"
)

type CompletionRequest = protocoltypes.CompletionRequest

var ErrMalformedResponse = protocoltypes.ErrMalformedResponse

// Provider produces a single text completion. Implementations must return an
// error wrapping ErrMalformedResponse when the service answered but the
// answer holds no usable text.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// CreateProvider builds the provider named by cfg.Drafter.Provider. The SDK
// clients are given the drafter timeout and have retries turned off.
func CreateProvider(cfg *config.Config) (Provider, error) {
	d := cfg.Drafter
	if strings.TrimSpace(d.APIKey) == "" {
		return nil, fmt.Errorf("drafter.api_key is required for provider %q", d.Provider)
	}
	httpClient := &http.Client{Timeout: d.Timeout()}

	switch strings.ToLower(d.Provider) {
	case "", config.ProviderOpenAI:
		return openaiprovider.NewProviderWithBaseURL(d.APIKey, d.APIBase,
			openaioption.WithHTTPClient(httpClient),
			openaioption.WithMaxRetries(0),
		), nil
	case config.ProviderAnthropic:
		return anthropicprovider.NewProviderWithBaseURL(d.APIKey, d.APIBase,
			anthropicoption.WithHTTPClient(httpClient),
			anthropicoption.WithMaxRetries(0),
		), nil
	default:
		return nil, fmt.Errorf("unknown drafter provider %q", d.Provider)
	}
}
