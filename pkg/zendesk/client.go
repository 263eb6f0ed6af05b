// Package zendesk posts comments to tickets through the Zendesk Support API.
package zendesk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/tinyland-inc/ticketclaw/pkg/config"
	"github.com/tinyland-inc/ticketclaw/pkg/logger"
	"github.com/tinyland-inc/ticketclaw/pkg/ticket"
)

// APIError is a non-2xx answer from Zendesk.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zendesk: HTTP %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	email      string
	apiToken   string
}

// NewClient picks OAuth bearer auth when cfg.OAuthToken is set and API-token
// basic auth otherwise.
func NewClient(cfg config.ZendeskConfig) (*Client, error) {
	base := cfg.APIBase()
	if base == "" {
		return nil, errors.New("zendesk: subdomain or base_url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("zendesk: invalid base url: %w", err)
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
	switch {
	case cfg.OAuthToken != "":
		c.httpClient.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.OAuthToken, TokenType: "Bearer"}),
			Base:   http.DefaultTransport,
		}
	case cfg.Email != "" && cfg.APIToken != "":
		c.email = cfg.Email
		c.apiToken = cfg.APIToken
	default:
		return nil, errors.New("zendesk: oauth_token or email + api_token is required")
	}
	return c, nil
}

type commentPayload struct {
	Ticket struct {
		Comment struct {
			Body   string `json:"body"`
			Public bool   `json:"public"`
		} `json:"comment"`
	} `json:"ticket"`
}

// AddNote appends a comment to ticket id. public=false makes it an internal
// note visible to agents only.
func (c *Client) AddNote(ctx context.Context, id ticket.TicketID, body string, public bool) error {
	if id.IsZero() {
		return errors.New("zendesk: empty ticket id")
	}

	var payload commentPayload
	payload.Ticket.Comment.Body = body
	payload.Ticket.Comment.Public = public
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/api/v2/tickets/" + url.PathEscape(id.String()) + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.email != "" {
		req.SetBasicAuth(c.email+"/token", c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zendesk: update ticket %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.DebugCF("zendesk", "Note added", map[string]any{
		"ticket_id": id.String(),
		"public":    public,
		"status":    resp.StatusCode,
	})
	return nil
}
