package drafter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/ticketclaw/pkg/config"
	"github.com/tinyland-inc/ticketclaw/pkg/providers"
	"github.com/tinyland-inc/ticketclaw/pkg/ticket"
)

type fakeProvider struct {
	text string
	err  error
	last providers.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req providers.CompletionRequest) (string, error) {
	f.last = req
	return f.text, f.err
}

func TestDraft_Ok(t *testing.T) {
	p := &fakeProvider{text: "Use the reset link on the login page."}
	cfg := config.DefaultConfig().Drafter
	d := New(p, cfg)

	res := d.Draft(t.Context(), ticket.NumericID(7), "How do I reset my password?")
	require.True(t, res.OK())
	assert.Equal(t, "Use the reset link on the login page.", res.Text)
	assert.NoError(t, res.Err)

	assert.Equal(t, cfg.Model, p.last.Model)
	assert.Equal(t, cfg.MaxTokens, p.last.MaxTokens)
	assert.Contains(t, p.last.System, ReviewPrefix)
	assert.Contains(t, p.last.User, "Ticket ID: 7")
	assert.Contains(t, p.last.User, "How do I reset my password?")
}

func TestDraft_ServiceFailure(t *testing.T) {
	p := &fakeProvider{err: errors.New("dial tcp: connection refused")}
	res := New(p, config.DefaultConfig().Drafter).Draft(t.Context(), ticket.StringID("abc"), "hi")

	assert.False(t, res.OK())
	assert.Equal(t, FailureService, res.Failure)
	assert.Empty(t, res.Text)
	assert.Equal(t, FallbackService, Fallback(res.Failure))
}

func TestDraft_ShapeFailure(t *testing.T) {
	p := &fakeProvider{err: fmt.Errorf("%w: no choices", providers.ErrMalformedResponse)}
	res := New(p, config.DefaultConfig().Drafter).Draft(t.Context(), ticket.NumericID(1), "hi")

	assert.Equal(t, FailureShape, res.Failure)
	assert.ErrorIs(t, res.Err, providers.ErrMalformedResponse)
	assert.Equal(t, FallbackShape, Fallback(res.Failure))
}

func TestFallbacksAreNonEmptyAndDistinct(t *testing.T) {
	assert.NotEmpty(t, Fallback(FailureService))
	assert.NotEmpty(t, Fallback(FailureShape))
	assert.NotEqual(t, Fallback(FailureService), Fallback(FailureShape))
}

func TestUserPrompt_EmptyMessage(t *testing.T) {
	got := UserPrompt(ticket.StringID("T-9"), "  ")
	assert.Contains(t, got, "Ticket ID: T-9")
	assert.Contains(t, got, "(no message text)")
}

func TestFailure_String(t *testing.T) {
	assert.Equal(t, "ok", FailureNone.String())
	assert.Equal(t, "service_error", FailureService.String())
	assert.Equal(t, "malformed_response", FailureShape.String())
}
