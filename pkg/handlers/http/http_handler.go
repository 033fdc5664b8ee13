package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Proxy
	ForwardedHandler Handler

	// Policies
	CreatePolicyHandler   Handler
	ListPoliciesHandler   Handler
	ActivePoliciesHandler Handler
	GetPolicyHandler      Handler
	UpdatePolicyHandler   Handler
	DeletePolicyHandler   Handler
	EvaluatePolicyHandler Handler
	ReloadPoliciesHandler Handler

	// System
	GetVersionHandler Handler
	HealthHandler     Handler
}
