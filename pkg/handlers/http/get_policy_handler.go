package http

import (
	domainPolicy "github.com/NeuralTrust/CorsGate/pkg/domain/policy"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type getPolicyHandler struct {
	logger *logrus.Logger
	repo   domainPolicy.Repository
}

func NewGetPolicyHandler(logger *logrus.Logger, repo domainPolicy.Repository) Handler {
	return &getPolicyHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary Retrieve a CORS policy by ID
// @Tags Policies
// @Produce json
// @Param Authorization header string true "Authorization token"
// @Param policy_id path string true "Policy ID"
// @Success 200 {object} response.PolicyResponse "Policy details"
// @Failure 404 {object} map[string]interface{} "Policy not found"
// @Router /api/v1/policies/{policy_id} [get]
func (h *getPolicyHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("policy_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidPolicyID})
	}

	entity, err := h.repo.Get(c.Context(), id)
	if err != nil {
		return policyErrorResponse(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(response.NewPolicyResponse(entity))
}
