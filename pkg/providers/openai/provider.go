package openaiprovider

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tinyland-inc/ticketclaw/pkg/providers/protocoltypes"
)

type CompletionRequest = protocoltypes.CompletionRequest

const defaultBaseURL = "https://api.openai.com/v1/"

type Provider struct {
	client  *openai.Client
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
	client := openai.NewClient(all...)
	return &Provider{client: &client, baseURL: baseURL}
}

func NewProviderWithClient(client *openai.Client) *Provider {
	return &Provider{client: client, baseURL: defaultBaseURL}
}

func (p *Provider) Name() string { return "openai" }

func (p *Provider) BaseURL() string { return p.baseURL }

func (p *Provider) GetDefaultModel() string { return "gpt-4o-mini" }

func (p *Provider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, buildParams(req))
	if err != nil {
		return "", fmt.Errorf("openai API call: %w", err)
	}
	return parseResponse(resp)
}

func buildParams(req CompletionRequest) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: msgs,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	return params
}

// parseResponse takes the first choice. Missing choices or blank content
// are reported as protocoltypes.ErrMalformedResponse.
func parseResponse(resp *openai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", protocoltypes.ErrMalformedResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty content (finish_reason=%s)",
			protocoltypes.ErrMalformedResponse, resp.Choices[0].FinishReason)
	}
	return text, nil
}

// normalizeBaseURL keeps the /v1 segment the chat completions route lives
// under and guarantees a trailing slash.
func normalizeBaseURL(apiBase string) string {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		return defaultBaseURL
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/"
}
