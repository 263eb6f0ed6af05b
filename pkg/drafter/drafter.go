// Package drafter turns a redacted customer message into a suggested agent
// reply using a generative-text provider.
package drafter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tinyland-inc/ticketclaw/pkg/config"
	"github.com/tinyland-inc/ticketclaw/pkg/logger"
	"github.com/tinyland-inc/ticketclaw/pkg/providers"
	"github.com/tinyland-inc/ticketclaw/pkg/ticket"
)

// Failure says why a draft could not be produced.
type Failure int

const (
	FailureNone Failure = iota
	// FailureService: the provider call itself failed (transport, auth,
	// timeout, non-2xx).
	FailureService
	// FailureShape: the provider answered but without usable text.
	FailureShape
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "ok"
	case FailureService:
		return "service_error"
	case FailureShape:
		return "malformed_response"
	default:
		return fmt.Sprintf("failure(%d)", int(f))
	}
}

const (
	FallbackService = "Error generating reply (AI service)."
	FallbackShape   = "Sorry — couldn't generate a reply at the moment."
)

// Fallback returns the fixed text posted in place of a draft.
func Fallback(f Failure) string {
	if f == FailureShape {
		return FallbackShape
	}
	return FallbackService
}

// Result is either Ok(Text) or a failure with its cause kept for logging.
type Result struct {
	Text    string
	Failure Failure
	Err     error
}

func Ok(text string) Result { return Result{Text: text} }

func (r Result) OK() bool { return r.Failure == FailureNone }

// ReviewPrefix is what the model is told to start its reply with when it
// thinks a human should look at the ticket anyway.
const ReviewPrefix = "[HUMAN REVIEW]"

const systemBrief = `You are a courteous, concise customer support agent drafting a reply for a human colleague to review.
Rules:
- Answer only from the customer's message; do not invent account details, prices, policies or order status.
- Never ask the customer to send passwords, card numbers or other secrets.
- Personal data has been replaced with placeholders such as [email] and [phone]; do not try to reconstruct it.
- Do not include a greeting or a signature; they are added for you.
- If the request involves refunds, billing, legal matters, account deletion, threats, or anything you are unsure about, start your reply with ` + ReviewPrefix + ` and explain briefly why a human should handle it.`

// SystemBrief returns the persona and safety instructions sent with every
// draft request.
func SystemBrief() string { return systemBrief }

// UserPrompt formats the ticket id and the redacted message.
func UserPrompt(id ticket.TicketID, redacted string) string {
	var sb strings.Builder
	sb.WriteString("Ticket ID: ")
	sb.WriteString(id.String())
	sb.WriteString("\nCustomer message:\n")
	if strings.TrimSpace(redacted) == "" {
		sb.WriteString("(no message text)")
	} else {
		sb.WriteString(redacted)
	}
	return sb.String()
}

// Drafter is safe for concurrent use as long as the provider is.
type Drafter struct {
	provider    providers.Provider
	model       string
	maxTokens   int
	temperature *float64
}

func New(p providers.Provider, cfg config.DrafterConfig) *Drafter {
	return &Drafter{
		provider:    p,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Draft never returns an error; failures are carried in the Result.
func (d *Drafter) Draft(ctx context.Context, id ticket.TicketID, redacted string) Result {
	text, err := d.provider.Complete(ctx, providers.CompletionRequest{
		System:      systemBrief,
		User:        UserPrompt(id, redacted),
		Model:       d.model,
		MaxTokens:   d.maxTokens,
		Temperature: d.temperature,
	})
	switch {
	case err == nil:
		return Ok(text)
	case errors.Is(err, providers.ErrMalformedResponse):
		logger.WarnCF("drafter", "Unexpected completion shape", map[string]any{
			"ticket_id": id.String(),
			"provider":  d.provider.Name(),
			"error":     err.Error(),
		})
		return Result{Failure: FailureShape, Err: err}
	default:
		logger.ErrorCF("drafter", "Completion request failed", map[string]any{
			"ticket_id": id.String(),
			"provider":  d.provider.Name(),
			"error":     err.Error(),
		})
		return Result{Failure: FailureService, Err: err}
	}
}
