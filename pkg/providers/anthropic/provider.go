package anthropicprovider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/tinyland-inc/ticketclaw/pkg/providers/protocoltypes"
)

type CompletionRequest = protocoltypes.CompletionRequest

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultMaxTokens = 1024
)

type Provider struct {
	client  *anthropic.Client
	baseURL string
}

func NewProvider(apiKey string, opts ...option.RequestOption) *Provider {
	return NewProviderWithBaseURL(apiKey, "", opts...)
}

func NewProviderWithBaseURL(apiKey, apiBase string, opts ...option.RequestOption) *Provider {
	baseURL := normalizeBaseURL(apiBase)
	all := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	}, opts...)
	client := anthropic.NewClient(all...)
	return &Provider{
		client:  &client,
		baseURL: baseURL,
	}
}

func NewProviderWithClient(client *anthropic.Client) *Provider {
	return &Provider{
		client:  client,
		baseURL: defaultBaseURL,
	}
}

func (p *Provider) Name() string { return "anthropic" }

func (p *Provider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := p.client.Messages.New(ctx, buildParams(req))
	if err != nil {
		return "", fmt.Errorf("claude API call: %w", err)
	}
	return parseResponse(resp)
}

func (p *Provider) GetDefaultModel() string {
	return "claude-sonnet-4.6"
}

func (p *Provider) BaseURL() string {
	return p.baseURL
}

func buildParams(req CompletionRequest) anthropic.MessageNewParams {
	maxTokens := int64(defaultMaxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	return params
}

// parseResponse joins the text blocks. A reply with no text at all is
// reported as protocoltypes.ErrMalformedResponse.
func parseResponse(resp *anthropic.Message) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil message", protocoltypes.ErrMalformedResponse)
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: no text content (stop_reason=%s, blocks=%d)",
			protocoltypes.ErrMalformedResponse, resp.StopReason, len(resp.Content))
	}
	return text, nil
}

func normalizeBaseURL(apiBase string) string {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		return defaultBaseURL
	}

	base = strings.TrimRight(base, "/")
	if b, ok := strings.CutSuffix(base, "/v1"); ok {
		base = b
	}
	if base == "" {
		return defaultBaseURL
	}

	return base
}
