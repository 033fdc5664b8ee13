package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	handlers "github.com/NeuralTrust/CorsGate/pkg/handlers/http"
	"github.com/NeuralTrust/CorsGate/pkg/middleware"
	"github.com/NeuralTrust/CorsGate/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedHandler string

func (h namedHandler) Handle(c *fiber.Ctx) error {
	return c.SendString(string(h))
}

type funcMiddleware func(c *fiber.Ctx) error

func (m funcMiddleware) Middleware() fiber.Handler {
	return fiber.Handler(m)
}

func newHandlerTransport() *handlers.HandlerTransport {
	return &handlers.HandlerTransport{
		ForwardedHandler:      namedHandler("forwarded"),
		CreatePolicyHandler:   namedHandler("create"),
		ListPoliciesHandler:   namedHandler("list"),
		ActivePoliciesHandler: namedHandler("active"),
		GetPolicyHandler:      namedHandler("get"),
		UpdatePolicyHandler:   namedHandler("update"),
		DeletePolicyHandler:   namedHandler("delete"),
		EvaluatePolicyHandler: namedHandler("evaluate"),
		ReloadPoliciesHandler: namedHandler("reload"),
		GetVersionHandler:     namedHandler("version"),
		HealthHandler:         namedHandler("health"),
	}
}

func body(t *testing.T, app *fiber.App, method, path string, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestAdminRouter_BuildRoutes(t *testing.T) {
	auth := funcMiddleware(func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Next()
	})
	app := fiber.New()
	r := router.NewAdminRouter(&middleware.Transport{AdminAuthMiddleware: auth}, newHandlerTransport())
	require.NoError(t, r.BuildRoutes(app))

	authz := map[string]string{fiber.HeaderAuthorization: "Bearer x"}

	t.Run("it should serve version and health without auth", func(t *testing.T) {
		status, b := body(t, app, http.MethodGet, "/version", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "version", b)

		status, b = body(t, app, http.MethodGet, router.HealthPath, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "health", b)
	})

	t.Run("it should require auth on the api group", func(t *testing.T) {
		status, _ := body(t, app, http.MethodGet, "/api/v1/policies", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("it should route static paths before the policy id", func(t *testing.T) {
		cases := []struct {
			method, path, want string
		}{
			{http.MethodPost, "/api/v1/policies", "create"},
			{http.MethodGet, "/api/v1/policies", "list"},
			{http.MethodGet, "/api/v1/policies/active", "active"},
			{http.MethodPost, "/api/v1/policies/evaluate", "evaluate"},
			{http.MethodPost, "/api/v1/policies/reload", "reload"},
			{http.MethodGet, "/api/v1/policies/123", "get"},
			{http.MethodPut, "/api/v1/policies/123", "update"},
			{http.MethodDelete, "/api/v1/policies/123", "delete"},
		}
		for _, tc := range cases {
			status, b := body(t, app, tc.method, tc.path, authz)
			assert.Equal(t, http.StatusOK, status, tc.path)
			assert.Equal(t, tc.want, b, tc.method+" "+tc.path)
		}
	})
}

func TestProxyRouter_BuildRoutes(t *testing.T) {
	var order []string
	track := func(name string) middleware.Middleware {
		return funcMiddleware(func(c *fiber.Ctx) error {
			order = append(order, name)
			return c.Next()
		})
	}
	app := fiber.New()
	r := router.NewProxyRouter(&middleware.Transport{
		PanicRecoverMiddleware: track("recover"),
		MetricsMiddleware:      track("metrics"),
		CorsMiddleware:         track("cors"),
	}, newHandlerTransport())
	require.NoError(t, r.BuildRoutes(app))

	t.Run("it should answer ping and health before the cors chain", func(t *testing.T) {
		order = nil
		status, _ := body(t, app, http.MethodGet, router.PingPath, nil)
		assert.Equal(t, http.StatusOK, status)
		status, b := body(t, app, http.MethodGet, router.HealthPath, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "health", b)
		assert.Empty(t, order)
	})

	t.Run("it should run the middleware chain in order and forward", func(t *testing.T) {
		order = nil
		status, b := body(t, app, http.MethodPost, "/any/path", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "forwarded", b)
		assert.Equal(t, []string{"recover", "metrics", "cors"}, order)
	})
}

func TestBuildRoutes_NilTransport(t *testing.T) {
	app := fiber.New()
	assert.ErrorIs(t, router.NewAdminRouter(nil, nil).BuildRoutes(app), router.ErrInvalidTransport)
	assert.ErrorIs(t, router.NewProxyRouter(&middleware.Transport{}, nil).BuildRoutes(app), router.ErrInvalidTransport)
}
