package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/ticketclaw/pkg/config"
)

func TestNewGatewayCommand(t *testing.T) {
	cmd := NewGatewayCommand()

	require.NotNil(t, cmd)

	assert.Equal(t, "gateway", cmd.Use)
	assert.Equal(t, "Start the ticket webhook gateway", cmd.Short)
	assert.Contains(t, cmd.Aliases, "g")

	assert.True(t, cmd.HasExample())
	assert.False(t, cmd.HasSubCommands())

	assert.Nil(t, cmd.Run)
	assert.NotNil(t, cmd.RunE)

	assert.NotNil(t, cmd.Flags().Lookup("debug"))
	assert.NotNil(t, cmd.Flags().Lookup("config"))
}

func TestBuildServer_RequiresCredentials(t *testing.T) {
	cfg := config.DefaultConfig()
	_, err := buildServer(cfg)
	assert.ErrorContains(t, err, "incomplete configuration")
}

func TestBuildServer_Wired(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Zendesk.Subdomain = "acme"
	cfg.Zendesk.OAuthToken = "tok"
	cfg.Drafter.APIKey = "sk-test"
	cfg.Gateway.SharedSecret = "s3cret"

	srv, err := buildServer(cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"ticket_id":1}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
