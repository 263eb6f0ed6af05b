package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Event("sensitive")
	m.Event("sensitive")
	m.Draft("ok")
	m.Note("reply", "posted")
	m.Redactions(2, 1)
	m.Redactions(0, 0)
	m.Alert("sent")

	got := gather(t, m)
	assert.Equal(t, 2.0, got["ticketclaw_pipeline_events_total|sensitive"])
	assert.Equal(t, 1.0, got["ticketclaw_drafter_drafts_total|ok"])
	assert.Equal(t, 1.0, got["ticketclaw_dispatcher_notes_total|reply,posted"])
	assert.Equal(t, 2.0, got["ticketclaw_redactor_substitutions_total|email"])
	assert.Equal(t, 1.0, got["ticketclaw_redactor_substitutions_total|phone"])
	assert.Equal(t, 1.0, got["ticketclaw_notify_alerts_total|sent"])
}

// gather flattens counter samples to "name|label1,label2" -> value.
func gather(t *testing.T, m *Metrics) map[string]float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if metric.GetCounter() == nil {
				continue
			}
			var labels []string
			for _, lp := range metric.GetLabel() {
				labels = append(labels, lp.GetValue())
			}
			out[mf.GetName()+"|"+strings.Join(labels, ",")] = metric.GetCounter().GetValue()
		}
	}
	return out
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Event("normal")
		m.Draft("ok")
		m.Note("flag", "skipped")
		m.Redactions(1, 1)
		m.Alert("failed")
		m.ObserveRequest("200", 0.1)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.Event("normal")
	m.ObserveRequest("200", 0.2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `ticketclaw_pipeline_events_total{outcome="normal"} 1`)
	assert.Contains(t, string(body), "ticketclaw_gateway_request_duration_seconds")
}
