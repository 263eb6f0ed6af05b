package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tinyland-inc/ticketclaw/cmd/ticketclaw/internal"
	"github.com/tinyland-inc/ticketclaw/pkg/config"
	"github.com/tinyland-inc/ticketclaw/pkg/drafter"
	"github.com/tinyland-inc/ticketclaw/pkg/gateway"
	"github.com/tinyland-inc/ticketclaw/pkg/logger"
	"github.com/tinyland-inc/ticketclaw/pkg/metrics"
	"github.com/tinyland-inc/ticketclaw/pkg/notify"
	"github.com/tinyland-inc/ticketclaw/pkg/pipeline"
	"github.com/tinyland-inc/ticketclaw/pkg/providers"
	"github.com/tinyland-inc/ticketclaw/pkg/zendesk"
)

const shutdownTimeout = 15 * time.Second

func gatewayCmd(configPath string, debug bool) error {
	cfg, err := internal.LoadConfig(configPath, debug)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if debug {
		fmt.Println("🔍 Debug mode enabled")
	}

	server, err := buildServer(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Gateway starting on %s (webhook %s)\n", cfg.Gateway.Addr(), cfg.Gateway.WebhookPath)
	fmt.Printf("✓ Health endpoints available at http://%s/health, /ready and /metrics\n", cfg.Gateway.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gateway server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.ErrorCF("gateway", "Shutdown did not complete", map[string]any{"error": err.Error()})
		return err
	}
	fmt.Println("✓ Gateway stopped")
	return nil
}

// buildServer wires every collaborator from cfg and fails on missing
// credentials.
func buildServer(cfg *config.Config) (*gateway.Server, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, fmt.Errorf("incomplete configuration: %w", err)
	}

	provider, err := providers.CreateProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating provider: %w", err)
	}

	zd, err := zendesk.NewClient(cfg.Zendesk)
	if err != nil {
		return nil, fmt.Errorf("error creating zendesk client: %w", err)
	}

	m := metrics.New()
	p := pipeline.New(cfg, zd, drafter.New(provider, cfg.Drafter), notify.New(cfg.Review.SlackWebhookURL), m)

	logger.InfoCF("gateway", "Pipeline initialized", map[string]any{
		"provider":        provider.Name(),
		"model":           cfg.Drafter.Model,
		"zendesk":         cfg.Zendesk.APIBase(),
		"post_flag_notes": cfg.Review.PostFlagNotes,
		"keywords":        len(cfg.Review.Keywords),
		"slack_alerts":    cfg.Review.SlackWebhookURL != "",
	})

	return gateway.NewServer(cfg.Gateway, p, m), nil
}
