package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/tinyland-inc/ticketclaw/pkg/classify"
	"github.com/tinyland-inc/ticketclaw/pkg/drafter"
	"github.com/tinyland-inc/ticketclaw/pkg/logger"
	"github.com/tinyland-inc/ticketclaw/pkg/metrics"
	"github.com/tinyland-inc/ticketclaw/pkg/notify"
	"github.com/tinyland-inc/ticketclaw/pkg/ticket"
)

const (
	FlaggedNote   = "Flagged for human review"
	PreviewRunes  = 600
	replyGreeting = "Hi there,"
	replyClosing  = "Best regards,"
)

// NotePoster is the ticketing-system operation the dispatcher needs.
type NotePoster interface {
	AddNote(ctx context.Context, id ticket.TicketID, body string, public bool) error
}

// DraftFunc produces a reply for a redacted message. It never fails; see
// drafter.Result.
type DraftFunc func(ctx context.Context, id ticket.TicketID, redacted string) drafter.Result

// OutboundPost is what gets written to the ticket. Automated posts are
// always internal notes.
type OutboundPost struct {
	TicketID ticket.TicketID
	Body     string
	Public   bool
}

// Ack is the JSON acknowledgment returned to the webhook caller. It never
// carries unredacted customer text.
type Ack struct {
	OK           bool            `json:"ok"`
	TicketID     ticket.TicketID `json:"ticketId,omitzero"`
	ReplyPreview string          `json:"replyPreview,omitempty"`
	Note         string          `json:"note,omitempty"`
}

// DispatchError reports a failed post to the ticketing system.
type DispatchError struct {
	TicketID ticket.TicketID
	Kind     string
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s note for ticket %s: %v", e.Kind, e.TicketID, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Dispatcher routes a classified ticket to either a review flag or a
// drafted reply.
type Dispatcher struct {
	poster        NotePoster
	notifier      notify.Notifier
	metrics       *metrics.Metrics
	postFlagNotes bool
	signature     string
}

func NewDispatcher(poster NotePoster, notifier notify.Notifier, m *metrics.Metrics, postFlagNotes bool, signature string) *Dispatcher {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Dispatcher{
		poster:        poster,
		notifier:      notifier,
		metrics:       m,
		postFlagNotes: postFlagNotes,
		signature:     signature,
	}
}

// Dispatch never calls draft for a sensitive ticket.
func (d *Dispatcher) Dispatch(ctx context.Context, id ticket.TicketID, cls classify.Result, redacted string, draft DraftFunc) (Ack, error) {
	if cls.IsSensitive() {
		return d.flag(ctx, id, cls.Matched, redacted)
	}
	return d.reply(ctx, id, redacted, draft)
}

func (d *Dispatcher) flag(ctx context.Context, id ticket.TicketID, keywords []string, redacted string) (Ack, error) {
	post := FlagPost(id, keywords, redacted)

	if d.postFlagNotes {
		if err := d.poster.AddNote(ctx, post.TicketID, post.Body, post.Public); err != nil {
			d.metrics.Note("flag", "failed")
			return Ack{}, &DispatchError{TicketID: id, Kind: "flag", Err: err}
		}
		d.metrics.Note("flag", "posted")
	} else {
		d.metrics.Note("flag", "skipped")
		logger.DebugCF("dispatcher", "Flag note posting disabled", map[string]any{
			"ticket_id": id.String(),
		})
	}

	if err := d.notifier.Flagged(ctx, id, keywords); err != nil {
		d.metrics.Alert("failed")
		logger.WarnCF("dispatcher", "Review alert failed", map[string]any{
			"ticket_id": id.String(),
			"error":     err.Error(),
		})
	} else if _, nop := d.notifier.(notify.Nop); !nop {
		d.metrics.Alert("sent")
	}

	return Ack{OK: true, Note: FlaggedNote}, nil
}

func (d *Dispatcher) reply(ctx context.Context, id ticket.TicketID, redacted string, draft DraftFunc) (Ack, error) {
	res := draft(ctx, id, redacted)
	d.metrics.Draft(res.Failure.String())

	text := res.Text
	if !res.OK() {
		text = drafter.Fallback(res.Failure)
		logger.InfoCF("dispatcher", "Posting fallback reply", map[string]any{
			"ticket_id": id.String(),
			"reason":    res.Failure.String(),
		})
	}

	post := ReplyPost(id, text, d.signature)
	if err := d.poster.AddNote(ctx, post.TicketID, post.Body, post.Public); err != nil {
		d.metrics.Note("reply", "failed")
		return Ack{}, &DispatchError{TicketID: id, Kind: "reply", Err: err}
	}
	d.metrics.Note("reply", "posted")

	return Ack{OK: true, TicketID: id, ReplyPreview: Preview(post.Body)}, nil
}

// FlagPost builds the internal note that withholds an automated reply.
func FlagPost(id ticket.TicketID, keywords []string, redacted string) OutboundPost {
	var sb strings.Builder
	sb.WriteString(drafter.ReviewPrefix)
	sb.WriteString(" Automated reply withheld.\n")
	sb.WriteString("Matched keywords: ")
	sb.WriteString(strings.Join(keywords, ", "))
	sb.WriteString("\n\nCustomer message (redacted):\n")
	sb.WriteString(redacted)
	return OutboundPost{TicketID: id, Body: sb.String(), Public: false}
}

// ReplyPost wraps draft text in the greeting and signature template. text
// must be non-empty; callers substitute a fallback first.
func ReplyPost(id ticket.TicketID, text, signature string) OutboundPost {
	var sb strings.Builder
	sb.WriteString(replyGreeting)
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(text))
	sb.WriteString("\n\n")
	sb.WriteString(replyClosing)
	if signature != "" {
		sb.WriteString("\n")
		sb.WriteString(signature)
	}
	return OutboundPost{TicketID: id, Body: sb.String(), Public: false}
}

// Preview returns at most PreviewRunes runes of body.
func Preview(body string) string {
	n := 0
	for i := range body {
		if n == PreviewRunes {
			return body[:i]
		}
		n++
	}
	return body
}
