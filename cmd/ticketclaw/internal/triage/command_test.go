package triage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/ticketclaw/pkg/classify"
	"github.com/tinyland-inc/ticketclaw/pkg/drafter"
	"github.com/tinyland-inc/ticketclaw/pkg/ticket"
)

func TestNewTriageCommand(t *testing.T) {
	cmd := NewTriageCommand()

	require.NotNil(t, cmd)

	assert.Equal(t, "triage", cmd.Use)
	assert.Equal(t, "Redact and classify a ticket message offline", cmd.Short)
	assert.True(t, cmd.HasExample())
	assert.False(t, cmd.HasSubCommands())
	assert.NotNil(t, cmd.RunE)

	for _, name := range []string{"message", "event", "draft", "config", "debug"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func runTriage(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("TICKETCLAW_CONFIG", filepath.Join(t.TempDir(), "missing.json"))

	cmd := NewTriageCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestTriage_Message(t *testing.T) {
	out := runTriage(t, "", "-m", "please refund my order, contact me at a@b.com")

	assert.Contains(t, out, "Classification: sensitive [refund]")
	assert.Contains(t, out, "Redactions:     1 email, 0 phone")
	assert.Contains(t, out, "[email]")
	assert.NotContains(t, out, "a@b.com")
}

func TestTriage_EventFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ticket_id":7,"comment":{"body":"How do I reset my password?"}}`), 0o600))

	out := runTriage(t, "", "--event", path)
	assert.Contains(t, out, "Ticket:         7 (from ticket_id)")
	assert.Contains(t, out, "Classification: normal")
}

func TestTriage_EventStdin(t *testing.T) {
	out := runTriage(t, `{"object":{"id":"Z-1","description":"call 555-123-4567"}}`, "--event", "-")
	assert.Contains(t, out, "Ticket:         Z-1 (from object.id)")
	assert.Contains(t, out, "call[phone]")
	assert.NotContains(t, out, "4567")
}

func TestTriage_EventWithoutID(t *testing.T) {
	t.Setenv("TICKETCLAW_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	cmd := NewTriageCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(`{"comment":{"body":"hi"}}`))
	cmd.SetArgs([]string{"--event", "-"})
	assert.ErrorIs(t, cmd.Execute(), ticket.ErrNotFound)
}

type stubDrafter struct{ calls int }

func (s *stubDrafter) Draft(context.Context, ticket.TicketID, string) drafter.Result {
	s.calls++
	return drafter.Result{Failure: drafter.FailureShape}
}

func TestTriager_DraftSkipsSensitiveAndFallsBack(t *testing.T) {
	var out bytes.Buffer
	d := &stubDrafter{}
	tr := &triager{classifier: classify.New(nil), drafter: d, signature: "Support", out: &out}

	tr.message(t.Context(), "I need a refund")
	assert.Zero(t, d.calls)
	assert.Contains(t, out.String(), "Draft:          skipped")

	out.Reset()
	tr.message(t.Context(), "How do I reset my password?")
	assert.Equal(t, 1, d.calls)
	assert.Contains(t, out.String(), drafter.FallbackShape)
	assert.Contains(t, out.String(), "Support")
}

func TestTriager_SimpleInteractive(t *testing.T) {
	var out bytes.Buffer
	tr := &triager{classifier: classify.New(nil), out: &out}

	tr.simpleInteractive(t.Context(), strings.NewReader("\nbilling issue\nquit\nnever reached\n"))
	got := out.String()
	assert.Contains(t, got, "Classification: sensitive [billing]")
	assert.Contains(t, got, "Goodbye!")
	assert.NotContains(t, got, "never reached")
}

type brokenReader struct{ reads int }

func (r *brokenReader) Read([]byte) (int, error) {
	r.reads++
	return 0, errors.New("disk gone")
}

func TestTriager_SimpleInteractiveStopsOnReadError(t *testing.T) {
	var out bytes.Buffer
	tr := &triager{classifier: classify.New(nil), out: &out}
	in := &brokenReader{}

	tr.simpleInteractive(t.Context(), in)
	assert.Equal(t, 1, in.reads)
	assert.Equal(t, 1, strings.Count(out.String(), "Error reading input: disk gone"))
}
