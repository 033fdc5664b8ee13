package http

import (
	appPolicy "github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type reloadPoliciesHandler struct {
	logger    *logrus.Logger
	loader    appPolicy.Loader
	publisher cache.EventPublisher
	nodeID    string
}

func NewReloadPoliciesHandler(
	logger *logrus.Logger,
	loader appPolicy.Loader,
	publisher cache.EventPublisher,
	nodeID string,
) Handler {
	return &reloadPoliciesHandler{
		logger:    logger,
		loader:    loader,
		publisher: publisher,
		nodeID:    nodeID,
	}
}

// Handle @Summary Reload CORS policies
// @Description Rebuilds the local snapshot and asks every other node to do the same
// @Tags Policies
// @Produce json
// @Param Authorization header string true "Authorization token"
// @Success 200 {object} policy.ReloadResult "Reload result"
// @Failure 503 {object} map[string]interface{} "No policy source available"
// @Router /api/v1/policies/reload [post]
func (h *reloadPoliciesHandler) Handle(c *fiber.Ctx) error {
	h.logger.Info("reloading cors policies")

	result, err := h.loader.Reload(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to reload cors policies")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "failed to reload policies, previous snapshot kept",
		})
	}

	if err := h.publisher.Publish(c.Context(), cache.PolicyEventsChannel, event.ReloadPoliciesEvent{
		RequestedBy: h.nodeID,
	}); err != nil {
		h.logger.WithError(err).Warn("failed to broadcast cors policies reload")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
