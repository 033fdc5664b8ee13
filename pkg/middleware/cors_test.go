package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/app/routing"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/NeuralTrust/CorsGate/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newCorsApp(t *testing.T, strict bool) (*fiber.App, *int) {
	store := policy.NewStore(testLogger(), routing.NewPathMatcher(), true)
	require.NoError(t, store.Register(policy.Registration{
		Pattern: "/api/**",
		Config: cors.Config{
			AllowedOrigins:   []string{"http://domain2.com"},
			AllowedMethods:   []string{"PUT", "DELETE"},
			AllowedHeaders:   []string{"X-Custom"},
			ExposedHeaders:   []string{"X-Trace"},
			AllowCredentials: cors.Bool(true),
		},
		Source: policy.SourceAPI,
	}))

	calls := 0
	app := fiber.New()
	app.Use(middleware.NewCorsMiddleware(testLogger(), store, strict).Middleware())
	app.All("/*", func(c *fiber.Ctx) error {
		calls++
		// upstream CORS headers must not leak on rejection
		c.Set(cors.HeaderAccessControlAllowOrigin, "*")
		return c.SendString("ok")
	})
	return app, &calls
}

func preflight(path, origin, method string, headers ...string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set(cors.HeaderOrigin, origin)
	req.Header.Set(cors.HeaderAccessControlRequestMethod, method)
	for _, h := range headers {
		req.Header.Add(cors.HeaderAccessControlRequestHeaders, h)
	}
	return req
}

func TestCorsMiddleware_Preflight(t *testing.T) {
	t.Run("it should answer an allowed preflight without calling next", func(t *testing.T) {
		app, calls := newCorsApp(t, false)

		resp, err := app.Test(preflight("/api/x", "http://domain2.com", "PUT", "x-custom"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://domain2.com", resp.Header.Get(cors.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "PUT,DELETE", resp.Header.Get(cors.HeaderAccessControlAllowMethods))
		assert.Equal(t, "true", resp.Header.Get(cors.HeaderAccessControlAllowCredentials))
		assert.Contains(t, resp.Header.Get(cors.HeaderVary), cors.HeaderOrigin)
		assert.Zero(t, *calls)
	})

	t.Run("it should reject a preflight for a method outside the policy", func(t *testing.T) {
		app, calls := newCorsApp(t, false)

		resp, err := app.Test(preflight("/api/x", "http://domain2.com", "POST"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		for _, h := range cors.ResponseHeaders {
			assert.Empty(t, resp.Header.Get(h), h)
		}
		assert.Zero(t, *calls)
	})

	t.Run("it should reject a preflight for a header outside the policy", func(t *testing.T) {
		app, _ := newCorsApp(t, false)

		resp, err := app.Test(preflight("/api/x", "http://domain2.com", "PUT", "X-Custom, X-Other"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("it should reject a preflight on an unmanaged path", func(t *testing.T) {
		app, calls := newCorsApp(t, false)

		resp, err := app.Test(preflight("/public", "http://domain2.com", "GET"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Empty(t, resp.Header.Get(cors.HeaderAccessControlAllowOrigin))
		assert.Zero(t, *calls)
	})
}

func TestCorsMiddleware_ActualRequest(t *testing.T) {
	t.Run("it should pass through a request without origin untouched", func(t *testing.T) {
		app, calls := newCorsApp(t, true)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/x", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get(cors.HeaderAccessControlAllowOrigin))
		assert.Equal(t, cors.HeaderOrigin, resp.Header.Get(cors.HeaderVary))
		assert.Equal(t, 1, *calls)
	})

	t.Run("it should tag an allowed request and call next", func(t *testing.T) {
		app, calls := newCorsApp(t, true)
		req := httptest.NewRequest(http.MethodPut, "/api/x", nil)
		req.Header.Set(cors.HeaderOrigin, "http://domain2.com")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "X-Trace", resp.Header.Get(cors.HeaderAccessControlExposeHeaders))
		assert.Equal(t, "true", resp.Header.Get(cors.HeaderAccessControlAllowCredentials))
		assert.Equal(t, 1, *calls)
	})

	t.Run("it should reject a disallowed origin with 403 in strict mode", func(t *testing.T) {
		app, calls := newCorsApp(t, true)
		req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
		req.Header.Set(cors.HeaderOrigin, "http://evil.com")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Empty(t, resp.Header.Get(cors.HeaderAccessControlAllowOrigin))
		assert.Equal(t, cors.HeaderOrigin, resp.Header.Get(cors.HeaderVary))
		assert.Zero(t, *calls)
	})

	t.Run("it should strip cors headers from a disallowed origin in lenient mode", func(t *testing.T) {
		app, calls := newCorsApp(t, false)
		req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
		req.Header.Set(cors.HeaderOrigin, "http://evil.com")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get(cors.HeaderAccessControlAllowOrigin))
		assert.Equal(t, cors.HeaderOrigin, resp.Header.Get(cors.HeaderVary))
		assert.Equal(t, 1, *calls)
	})

	t.Run("it should pass through an unmanaged path even in strict mode", func(t *testing.T) {
		app, calls := newCorsApp(t, true)
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		req.Header.Set(cors.HeaderOrigin, "http://domain2.com")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get(cors.HeaderVary))
		assert.Equal(t, 1, *calls)
	})

	t.Run("it should treat a same-origin request as non-cors", func(t *testing.T) {
		app, calls := newCorsApp(t, true)
		req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
		req.Header.Set(cors.HeaderOrigin, "http://example.com")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, *calls)
	})
}

func TestRequestFromFiber(t *testing.T) {
	app := fiber.New()
	var got cors.Request
	app.Options("/api/x", func(c *fiber.Ctx) error {
		got = middleware.RequestFromFiber(c)
		return c.SendStatus(http.StatusNoContent)
	})

	req := preflight("/api/x", "http://domain2.com", "PUT", "X-A, X-B", "X-C")
	req.Header.Set("User-Agent", "curl/8.0")
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.MethodOptions, got.Method)
	assert.Equal(t, "http", got.Scheme)
	assert.Equal(t, "example.com", got.Host)
	assert.Equal(t, "/api/x", got.Path)
	assert.Equal(t, "http://domain2.com", got.Origin)
	assert.Equal(t, "PUT", got.AccessControlRequestMethod)
	assert.Equal(t, []string{"X-A", "X-B", "X-C"}, got.AccessControlRequestHeaders)
	assert.Equal(t, "curl/8.0", got.UserAgent)
}

func TestRequestFromFiber_OutlivesTheRequest(t *testing.T) {
	app := fiber.New()
	var captured []cors.Request
	app.All("/*", func(c *fiber.Ctx) error {
		captured = append(captured, middleware.RequestFromFiber(c))
		return c.SendStatus(http.StatusNoContent)
	})

	first := httptest.NewRequest(http.MethodGet, "/aaaa/path", nil)
	first.Header.Set(cors.HeaderOrigin, "https://first-origin.example")
	first.Header.Set(cors.HeaderAccessControlRequestMethod, "GET")
	first.Header.Set("User-Agent", "first-agent/1.0")
	_, err := app.Test(first)
	require.NoError(t, err)

	second := httptest.NewRequest(http.MethodPut, "/zzzz/diff", nil)
	second.Header.Set(cors.HeaderOrigin, "https://other-origin.example")
	second.Header.Set(cors.HeaderAccessControlRequestMethod, "PUT")
	second.Header.Set("User-Agent", "other-agent/2.0")
	_, err = app.Test(second)
	require.NoError(t, err)

	require.Len(t, captured, 2)
	assert.Equal(t, http.MethodGet, captured[0].Method)
	assert.Equal(t, "/aaaa/path", captured[0].Path)
	assert.Equal(t, "https://first-origin.example", captured[0].Origin)
	assert.Equal(t, "GET", captured[0].AccessControlRequestMethod)
	assert.Equal(t, "first-agent/1.0", captured[0].UserAgent)
	assert.Equal(t, "/zzzz/diff", captured[1].Path)
}
