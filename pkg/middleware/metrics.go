package middleware

import (
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/common"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/NeuralTrust/CorsGate/pkg/infra/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
	worker metrics.Worker
}

// NewMetricsMiddleware hands every finished request, together with the CORS
// decision left in the context by the cors middleware, to the metrics worker.
func NewMetricsMiddleware(logger *logrus.Logger, worker metrics.Worker) Middleware {
	return &metricsMiddleware{
		logger: logger,
		worker: worker,
	}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		c.Locals(common.LatencyContextKey, startTime)

		err := c.Next()

		statusCode := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				statusCode = fe.Code
			} else {
				statusCode = fiber.StatusInternalServerError
			}
		}

		req, ok := c.Locals(common.CorsRequestContextKey).(cors.Request)
		if !ok {
			req = cors.Request{Method: utils.CopyString(c.Method()), Path: utils.CopyString(c.Path())}
		}
		decision, ok := c.Locals(common.CorsDecisionContextKey).(cors.Decision)
		if !ok {
			m.logger.WithField("path", req.Path).Debug("cors decision not found in context")
		}
		version, _ := c.Locals(common.PolicyVersionContextKey).(uint64)

		m.worker.Process(req, decision, metrics.RequestMeta{
			StatusCode:     statusCode,
			IP:             utils.CopyString(c.IP()),
			AcceptLanguage: utils.CopyString(c.Get(fiber.HeaderAcceptLanguage)),
			PolicyVersion:  version,
			Elapsed:        time.Since(startTime),
		})
		return err
	}
}
