package http

import (
	appPolicy "github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/request"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type createPolicyHandler struct {
	logger  *logrus.Logger
	creator appPolicy.Creator
}

func NewCreatePolicyHandler(logger *logrus.Logger, creator appPolicy.Creator) Handler {
	return &createPolicyHandler{
		logger:  logger,
		creator: creator,
	}
}

// Handle @Summary Create a CORS policy
// @Description Registers a CORS configuration for a path pattern
// @Tags Policies
// @Accept json
// @Produce json
// @Param Authorization header string true "Authorization token"
// @Param policy body request.PolicyRequest true "Policy data"
// @Success 201 {object} response.PolicyResponse "Policy created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 409 {object} map[string]interface{} "Pattern already registered"
// @Router /api/v1/policies [post]
func (h *createPolicyHandler) Handle(c *fiber.Ctx) error {
	var req request.PolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	entity, err := h.creator.Create(c.Context(), &req)
	if err != nil {
		return policyErrorResponse(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.NewPolicyResponse(entity))
}
