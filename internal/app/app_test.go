package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastesense/internal/config"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	cfg := config.Default()
	cfg.Security.RateLimit.Enabled = false

	application, err := New(&cfg)
	require.NoError(t, err)
	return application
}

func TestApplicationRouter(t *testing.T) {
	application := newTestApp(t)

	t.Run("health is reachable through the full chain", func(t *testing.T) {
		rec := httptest.NewRecorder()
		application.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("metrics endpoint is exposed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		application.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})

	t.Run("unknown routes are 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		application.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
