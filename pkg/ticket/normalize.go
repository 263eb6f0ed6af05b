package ticket

import (
	"errors"

	"github.com/tinyland-inc/ticketclaw/pkg/logger"
)

// ErrNotFound is returned when no rule yields a ticket identifier.
var ErrNotFound = errors.New("no ticket id in payload")

// Rule names one place a value may live in an Event.
type Rule struct {
	Name string
	Path Path
}

// Match is the outcome of evaluating an ordered rule list: either the first
// accepted value and the rule that produced it, or OK=false.
type Match[T any] struct {
	Value T
	Rule  Rule
	OK    bool
}

// IDRules lists where a ticket id may appear, highest priority first.
var IDRules = []Rule{
	{Name: "ticket.id", Path: Path{"ticket", "id"}},
	{Name: "ticket_id", Path: Path{"ticket_id"}},
	{Name: "id", Path: Path{"id"}},
	{Name: "object.id", Path: Path{"object", "id"}},
}

// TextRules lists where the customer's message may appear, highest priority
// first.
var TextRules = []Rule{
	{Name: "comment.body", Path: Path{"comment", "body"}},
	{Name: "ticket.latest_comment.body", Path: Path{"ticket", "latest_comment", "body"}},
	{Name: "object.latest_comment.body", Path: Path{"object", "latest_comment", "body"}},
	{Name: "ticket.description", Path: Path{"ticket", "description"}},
	{Name: "object.description", Path: Path{"object", "description"}},
}

// FirstMatch evaluates rules in order and returns the first value accept
// converts successfully.
func FirstMatch[T any](e Event, rules []Rule, accept func(any) (T, bool)) Match[T] {
	for _, rule := range rules {
		raw, ok := e.Lookup(rule.Path)
		if !ok {
			continue
		}
		if v, ok := accept(raw); ok {
			return Match[T]{Value: v, Rule: rule, OK: true}
		}
	}
	return Match[T]{}
}

// Ticket is the normalized view of an inbound event. RawText is unredacted
// and must not leave the process; see package redact.
type Ticket struct {
	ID       TicketID
	RawText  string
	IDRule   string
	TextRule string
}

// Normalize extracts the ticket id and message body from e. It fails with
// ErrNotFound when no id rule matches; the body falls back to "".
func Normalize(e Event) (Ticket, error) {
	id := FirstMatch(e, IDRules, idFromValue)
	if !id.OK {
		logger.WarnCF("ticket", "No ticket id in payload", map[string]any{
			"keys": e.Keys(),
		})
		return Ticket{}, ErrNotFound
	}

	text := FirstMatch(e, TextRules, textFromValue)

	return Ticket{
		ID:       id.Value,
		RawText:  text.Value,
		IDRule:   id.Rule.Name,
		TextRule: text.Rule.Name,
	}, nil
}
