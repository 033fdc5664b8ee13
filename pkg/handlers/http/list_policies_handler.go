package http

import (
	"strconv"

	domainPolicy "github.com/NeuralTrust/CorsGate/pkg/domain/policy"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listPoliciesHandler struct {
	logger *logrus.Logger
	repo   domainPolicy.Repository
}

func NewListPoliciesHandler(logger *logrus.Logger, repo domainPolicy.Repository) Handler {
	return &listPoliciesHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List CORS policies
// @Description Returns the persisted policies, most recently updated first
// @Tags Policies
// @Produce json
// @Param Authorization header string true "Authorization token"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit (max 100)"
// @Success 200 {object} response.ListPoliciesResponse "List of policies"
// @Router /api/v1/policies [get]
func (h *listPoliciesHandler) Handle(c *fiber.Ctx) error {
	offset := 0
	limit := 10
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if val, err := strconv.Atoi(offsetStr); err == nil && val >= 0 {
			offset = val
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if val, err := strconv.Atoi(limitStr); err == nil && val > 0 && val <= 100 {
			limit = val
		}
	}

	policies, err := h.repo.List(c.Context(), offset, limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to list cors policies")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list policies"})
	}
	return c.Status(fiber.StatusOK).JSON(response.NewListPoliciesResponse(policies, offset, limit))
}
