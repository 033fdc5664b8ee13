package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/config"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	handlers "github.com/NeuralTrust/CorsGate/pkg/handlers/http"
	"github.com/NeuralTrust/CorsGate/pkg/infra/httpx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardedHandler(t *testing.T) {
	t.Run("it should answer 404 without an upstream", func(t *testing.T) {
		app := fiber.New()
		app.Use(handlers.NewForwardedHandler(testLogger(), config.UpstreamConfig{},
			httpx.NewCircuitBreaker("test", time.Second, 3)).Handle)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/anything", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("it should relay the upstream answer and keep cors headers set earlier", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/items", r.URL.Path)
			assert.Equal(t, "page=2", r.URL.RawQuery)
			assert.NotEmpty(t, r.Header.Get("X-Forwarded-For"))
			w.Header().Set(cors.HeaderAccessControlAllowOrigin, "*")
			w.Header().Set("X-Upstream", "yes")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("created"))
		}))
		defer upstream.Close()

		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			c.Set(cors.HeaderAccessControlAllowOrigin, "http://domain2.com")
			return c.Next()
		})
		app.Use(handlers.NewForwardedHandler(testLogger(), config.UpstreamConfig{
			URL:     upstream.URL,
			Timeout: 5 * time.Second,
		}, httpx.NewCircuitBreaker("test", time.Second, 3)).Handle)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/items?page=2", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "yes", resp.Header.Get("X-Upstream"))
		assert.Equal(t, []string{"http://domain2.com"}, resp.Header.Values(cors.HeaderAccessControlAllowOrigin))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "created", string(body))
	})

	t.Run("it should answer 503 once the breaker opens", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer upstream.Close()

		app := fiber.New()
		app.Use(handlers.NewForwardedHandler(testLogger(), config.UpstreamConfig{
			URL:     upstream.URL,
			Timeout: 5 * time.Second,
		}, httpx.NewCircuitBreaker("test", time.Minute, 1)).Handle)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
