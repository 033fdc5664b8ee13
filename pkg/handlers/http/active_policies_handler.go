package http

import (
	appPolicy "github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
)

type activePoliciesHandler struct {
	store appPolicy.Store
}

func NewActivePoliciesHandler(store appPolicy.Store) Handler {
	return &activePoliciesHandler{store: store}
}

// Handle @Summary Active CORS registrations
// @Description Returns the snapshot this node evaluates requests against, most specific pattern first
// @Tags Policies
// @Produce json
// @Param Authorization header string true "Authorization token"
// @Success 200 {object} response.ActivePoliciesResponse "Active snapshot"
// @Router /api/v1/policies/active [get]
func (h *activePoliciesHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(response.ActivePoliciesResponse{
		Version:       h.store.Version(),
		Registrations: h.store.Registrations(),
	})
}
