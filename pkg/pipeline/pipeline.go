// Package pipeline wires the webhook stages together:
// normalize, redact, classify, then draft and dispatch.
package pipeline

import (
	"context"
	"errors"

	"github.com/tinyland-inc/ticketclaw/pkg/classify"
	"github.com/tinyland-inc/ticketclaw/pkg/config"
	"github.com/tinyland-inc/ticketclaw/pkg/drafter"
	"github.com/tinyland-inc/ticketclaw/pkg/logger"
	"github.com/tinyland-inc/ticketclaw/pkg/metrics"
	"github.com/tinyland-inc/ticketclaw/pkg/notify"
	"github.com/tinyland-inc/ticketclaw/pkg/redact"
	"github.com/tinyland-inc/ticketclaw/pkg/ticket"
)

// Drafter is the reply-generation stage.
type Drafter interface {
	Draft(ctx context.Context, id ticket.TicketID, redacted string) drafter.Result
}

// Assessment is everything decided about an event before any outbound call.
// Raw customer text is not kept.
type Assessment struct {
	TicketID ticket.TicketID
	IDRule   string
	TextRule string
	Redacted string
	Report   redact.Report
	Result   classify.Result
}

// Assess runs the pure stages: normalize, redact, classify.
func Assess(c *classify.Classifier, e ticket.Event) (Assessment, error) {
	t, err := ticket.Normalize(e)
	if err != nil {
		return Assessment{}, err
	}
	redacted, report := redact.Apply(t.RawText)
	return Assessment{
		TicketID: t.ID,
		IDRule:   t.IDRule,
		TextRule: t.TextRule,
		Redacted: redacted,
		Report:   report,
		Result:   c.Classify(redacted),
	}, nil
}

// Pipeline holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	classifier *classify.Classifier
	drafter    Drafter
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
}

func New(cfg *config.Config, poster NotePoster, d Drafter, n notify.Notifier, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		classifier: classify.New(cfg.Review.Keywords),
		drafter:    d,
		dispatcher: NewDispatcher(poster, n, m, cfg.Review.PostFlagNotes, cfg.Drafter.Signature),
		metrics:    m,
	}
}

// Process handles one event end to end. It returns ticket.ErrNotFound when
// no id can be located and a *DispatchError when posting fails.
func (p *Pipeline) Process(ctx context.Context, e ticket.Event) (Ack, error) {
	a, err := Assess(p.classifier, e)
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			p.metrics.Event("no_ticket_id")
		}
		return Ack{}, err
	}
	p.metrics.Redactions(a.Report.Emails, a.Report.Phones)
	p.metrics.Event(a.Result.Classification.String())

	logger.InfoCF("pipeline", "Ticket classified", map[string]any{
		"ticket_id":      a.TicketID.String(),
		"id_rule":        a.IDRule,
		"text_rule":      a.TextRule,
		"classification": a.Result.Classification.String(),
		"keywords":       a.Result.Matched,
		"redactions":     a.Report.Total(),
		"text_len":       len(a.Redacted),
	})

	ack, err := p.dispatcher.Dispatch(ctx, a.TicketID, a.Result, a.Redacted, p.drafter.Draft)
	if err != nil {
		p.metrics.Event("error")
		return Ack{}, err
	}
	return ack, nil
}
