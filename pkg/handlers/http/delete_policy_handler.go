package http

import (
	appPolicy "github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type deletePolicyHandler struct {
	logger  *logrus.Logger
	deleter appPolicy.Deleter
}

func NewDeletePolicyHandler(logger *logrus.Logger, deleter appPolicy.Deleter) Handler {
	return &deletePolicyHandler{
		logger:  logger,
		deleter: deleter,
	}
}

// Handle @Summary Delete a CORS policy
// @Tags Policies
// @Param Authorization header string true "Authorization token"
// @Param policy_id path string true "Policy ID"
// @Success 204 "Policy deleted successfully"
// @Failure 404 {object} map[string]interface{} "Policy not found"
// @Router /api/v1/policies/{policy_id} [delete]
func (h *deletePolicyHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("policy_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidPolicyID})
	}

	if err := h.deleter.Delete(c.Context(), id); err != nil {
		return policyErrorResponse(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
