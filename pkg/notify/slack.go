// Package notify sends out-of-band alerts when a ticket is held for review.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/tinyland-inc/ticketclaw/pkg/ticket"
)

// Notifier announces that a ticket was flagged. Implementations must not
// include customer text in the alert.
type Notifier interface {
	Flagged(ctx context.Context, id ticket.TicketID, keywords []string) error
}

// Nop is used when no alert channel is configured.
type Nop struct{}

func (Nop) Flagged(context.Context, ticket.TicketID, []string) error { return nil }

// Slack posts to an incoming-webhook URL.
type Slack struct {
	webhookURL string
	httpClient *http.Client
}

// New returns a Slack notifier for webhookURL, or Nop when it is empty.
func New(webhookURL string) Notifier {
	if strings.TrimSpace(webhookURL) == "" {
		return Nop{}
	}
	return &Slack{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Slack) Flagged(ctx context.Context, id ticket.TicketID, keywords []string) error {
	msg := &slack.WebhookMessage{Text: FlagMessage(id, keywords)}
	if err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.httpClient, msg); err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	return nil
}

// FlagMessage is the alert text: ticket id and matched keywords only.
func FlagMessage(id ticket.TicketID, keywords []string) string {
	kw := "none"
	if len(keywords) > 0 {
		kw = strings.Join(keywords, ", ")
	}
	return fmt.Sprintf(":warning: Ticket %s flagged for human review (keywords: %s)", id, kw)
}
