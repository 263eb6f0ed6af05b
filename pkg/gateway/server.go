// Package gateway exposes the webhook pipeline over HTTP, together with
// health, readiness and metrics endpoints.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tinyland-inc/ticketclaw/pkg/config"
	"github.com/tinyland-inc/ticketclaw/pkg/logger"
	"github.com/tinyland-inc/ticketclaw/pkg/metrics"
	"github.com/tinyland-inc/ticketclaw/pkg/pipeline"
	"github.com/tinyland-inc/ticketclaw/pkg/ticket"
)

const (
	msgUnauthorized = "Unauthorized"
	msgNoTicketID   = "No ticket id in payload"
	msgInvalidJSON  = "Invalid JSON payload"
	msgTooLarge     = "Payload too large"
	msgInternal     = "Internal server error"
	msgMethod       = "Method not allowed"
)

// Processor runs one event through the pipeline.
type Processor interface {
	Process(ctx context.Context, e ticket.Event) (pipeline.Ack, error)
}

type errorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type Server struct {
	cfg       config.GatewayConfig
	processor Processor
	metrics   *metrics.Metrics
	server    *http.Server
	ready     atomic.Bool
}

func NewServer(cfg config.GatewayConfig, p Processor, m *metrics.Metrics) *Server {
	s := &Server{cfg: cfg, processor: p, metrics: m}
	s.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}
	return s
}

// Handler builds the route table. The webhook route is wrapped, outermost
// first, in request id, instrumentation, panic recovery, shared-secret
// auth and the body limit.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/ready", s.readyHandler)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	mux.Handle(s.cfg.WebhookPath, chain(http.HandlerFunc(s.webhookHandler),
		RequestID,
		Instrument(s.metrics),
		Recover,
		SharedSecret(s.cfg.SharedSecret, s.metrics),
		BodyLimit(s.cfg.MaxBodyBytes),
	))
	return mux
}

func (s *Server) SetReady(ready bool) { s.ready.Store(ready) }

// Start listens and serves until Stop; it returns http.ErrServerClosed
// after a clean shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.SetReady(true)
	logger.InfoCF("gateway", "Listening", map[string]any{
		"addr":         ln.Addr().String(),
		"webhook_path": s.cfg.WebhookPath,
		"auth":         s.cfg.SharedSecret != "",
	})
	return s.server.Serve(ln)
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.SetReady(false)
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyHandler(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, msgMethod)
		return
	}
	reqID := RequestIDFrom(r.Context())

	event, err := ticket.DecodeEvent(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.Event("too_large")
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		s.metrics.Event("invalid")
		logger.WarnCF("gateway", "Invalid webhook payload", map[string]any{
			"request_id": reqID,
			"error":      err.Error(),
		})
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	ack, err := s.processor.Process(r.Context(), event)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ack)
	case errors.Is(err, ticket.ErrNotFound):
		writeError(w, http.StatusBadRequest, msgNoTicketID)
	default:
		logger.ErrorCF("gateway", "Webhook processing failed", map[string]any{
			"request_id": reqID,
			"error":      err.Error(),
		})
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{OK: false, Error: msg})
}
