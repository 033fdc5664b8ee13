package http

import (
	appPolicy "github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/request"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type updatePolicyHandler struct {
	logger  *logrus.Logger
	updater appPolicy.Updater
}

func NewUpdatePolicyHandler(logger *logrus.Logger, updater appPolicy.Updater) Handler {
	return &updatePolicyHandler{
		logger:  logger,
		updater: updater,
	}
}

// Handle @Summary Update a CORS policy
// @Description Replaces the pattern and configuration of a policy. Omitted fields become unset.
// @Tags Policies
// @Accept json
// @Produce json
// @Param Authorization header string true "Authorization token"
// @Param policy_id path string true "Policy ID"
// @Param policy body request.PolicyRequest true "Policy data"
// @Success 200 {object} response.PolicyResponse "Policy updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Policy not found"
// @Router /api/v1/policies/{policy_id} [put]
func (h *updatePolicyHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("policy_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidPolicyID})
	}

	var req request.PolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	entity, err := h.updater.Update(c.Context(), id, &req)
	if err != nil {
		return policyErrorResponse(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(response.NewPolicyResponse(entity))
}
