package http

import (
	"errors"

	appPolicy "github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	ErrInvalidJsonPayload = "invalid JSON payload"
	ErrInvalidPolicyID    = "invalid policy ID"
)

// policyErrorResponse maps policy service errors to HTTP answers.
func policyErrorResponse(c *fiber.Ctx, logger *logrus.Logger, err error) error {
	switch {
	case errors.Is(err, appPolicy.ErrInvalidPolicy):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrPolicyAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case domain.IsNotFoundError(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.WithError(err).Error("cors policy operation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
