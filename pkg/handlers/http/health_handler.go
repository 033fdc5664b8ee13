package http

import (
	"time"

	appPolicy "github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/gofiber/fiber/v2"
)

type healthHandler struct {
	store appPolicy.Store
}

func NewHealthHandler(store appPolicy.Store) Handler {
	return &healthHandler{store: store}
}

// Handle @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Node is healthy"
// @Router /health [get]
func (h *healthHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":         "healthy",
		"time":           time.Now().Format(time.RFC3339),
		"policy_version": h.store.Version(),
		"registrations":  len(h.store.Registrations()),
	})
}
