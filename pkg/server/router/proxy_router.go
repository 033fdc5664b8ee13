package router

import (
	handlers "github.com/NeuralTrust/CorsGate/pkg/handlers/http"
	"github.com/NeuralTrust/CorsGate/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

const (
	HealthPath = "/health"
	PingPath   = "/__/ping"
)

type proxyRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
}

func NewProxyRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
) ServerRouter {
	return &proxyRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *proxyRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport == nil || r.middlewareTransport == nil {
		return ErrInvalidTransport
	}
	h := r.handlerTransport
	m := r.middlewareTransport

	router.Get(HealthPath, h.HealthHandler.Handle)
	router.Get(PingPath, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	chain := make([]fiber.Handler, 0, 3)
	for _, mw := range []middleware.Middleware{m.PanicRecoverMiddleware, m.MetricsMiddleware, m.CorsMiddleware} {
		if mw != nil {
			chain = append(chain, mw.Middleware())
		}
	}
	for _, handler := range chain {
		router.Use(handler)
	}
	router.Use(h.ForwardedHandler.Handle)

	return nil
}
