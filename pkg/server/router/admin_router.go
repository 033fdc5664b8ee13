package router

import (
	_ "github.com/NeuralTrust/CorsGate/docs"
	handlers "github.com/NeuralTrust/CorsGate/pkg/handlers/http"
	"github.com/NeuralTrust/CorsGate/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

type adminRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
}

func NewAdminRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
) ServerRouter {
	return &adminRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *adminRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport == nil || r.middlewareTransport == nil {
		return ErrInvalidTransport
	}
	h := r.handlerTransport

	router.Get("/docs/*", swagger.HandlerDefault)
	router.Get("/version", h.GetVersionHandler.Handle)
	router.Get(HealthPath, h.HealthHandler.Handle)

	v1 := router.Group("/api/v1")
	if r.middlewareTransport.AdminAuthMiddleware != nil {
		v1.Use(r.middlewareTransport.AdminAuthMiddleware.Middleware())
	}

	policies := v1.Group("/policies")
	policies.Post("", h.CreatePolicyHandler.Handle)
	policies.Get("", h.ListPoliciesHandler.Handle)
	policies.Get("/active", h.ActivePoliciesHandler.Handle)
	policies.Post("/evaluate", h.EvaluatePolicyHandler.Handle)
	policies.Post("/reload", h.ReloadPoliciesHandler.Handle)
	policies.Get("/:policy_id", h.GetPolicyHandler.Handle)
	policies.Put("/:policy_id", h.UpdatePolicyHandler.Handle)
	policies.Delete("/:policy_id", h.DeletePolicyHandler.Handle)

	return nil
}
