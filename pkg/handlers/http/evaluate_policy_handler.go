package http

import (
	appPolicy "github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/request"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type evaluatePolicyHandler struct {
	logger *logrus.Logger
	store  appPolicy.Store
}

func NewEvaluatePolicyHandler(logger *logrus.Logger, store appPolicy.Store) Handler {
	return &evaluatePolicyHandler{
		logger: logger,
		store:  store,
	}
}

// Handle @Summary Dry-run a CORS request
// @Description Evaluates a described request against the active snapshot without forwarding anything
// @Tags Policies
// @Accept json
// @Produce json
// @Param Authorization header string true "Authorization token"
// @Param request body request.EvaluateRequest true "Request to evaluate"
// @Success 200 {object} response.EvaluateResponse "Evaluation result"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/policies/evaluate [post]
func (h *evaluatePolicyHandler) Handle(c *fiber.Ctx) error {
	var req request.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	corsReq := req.ToCorsRequest()
	version := h.store.Version()
	p, _ := h.store.Lookup(corsReq.Path)
	decision := cors.Evaluate(corsReq, p)

	h.logger.WithFields(logrus.Fields{
		"path":    corsReq.Path,
		"origin":  corsReq.Origin,
		"outcome": decision.Outcome.String(),
	}).Debug("cors dry-run evaluated")

	return c.Status(fiber.StatusOK).JSON(response.NewEvaluateResponse(decision, p, version))
}
