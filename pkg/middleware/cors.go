package middleware

import (
	"github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/common"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type corsMiddleware struct {
	logger *logrus.Logger
	store  policy.Store
	strict bool
}

// NewCorsMiddleware evaluates every request carrying an Origin header against
// the policy store. Preflights are answered here and never reach the next
// handler. Rejected actual requests get 403 in strict mode; otherwise they
// continue with every CORS response header removed.
func NewCorsMiddleware(logger *logrus.Logger, store policy.Store, strict bool) Middleware {
	return &corsMiddleware{
		logger: logger,
		store:  store,
		strict: strict,
	}
}

func (m *corsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := RequestFromFiber(c)
		c.Locals(common.CorsRequestContextKey, req)
		c.Locals(common.PolicyVersionContextKey, m.store.Version())

		p, found := m.store.Lookup(req.Path)
		decision := cors.Evaluate(req, p)
		c.Locals(common.CorsDecisionContextKey, decision)

		if decision.Outcome == cors.NotCors {
			writeHeaders(c, decision)
			return c.Next()
		}
		if decision.Preflight {
			return m.handlePreflight(c, req, decision)
		}

		switch {
		case decision.Allowed():
			writeHeaders(c, decision)
			return c.Next()
		case !found:
			// unmanaged path
			return c.Next()
		case m.strict:
			m.logRejection(req, decision)
			writeHeaders(c, decision)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": decision.Reason.Error()})
		default:
			m.logRejection(req, decision)
			writeHeaders(c, decision)
			err := c.Next()
			stripHeaders(c)
			return err
		}
	}
}

func (m *corsMiddleware) handlePreflight(c *fiber.Ctx, req cors.Request, decision cors.Decision) error {
	if !decision.Allowed() {
		m.logRejection(req, decision)
		stripHeaders(c)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": decision.Reason.Error()})
	}
	writeHeaders(c, decision)
	return c.SendStatus(fiber.StatusOK)
}

func (m *corsMiddleware) logRejection(req cors.Request, decision cors.Decision) {
	m.logger.WithFields(logrus.Fields{
		"origin":    req.Origin,
		"method":    req.Method,
		"path":      req.Path,
		"preflight": decision.Preflight,
		"reason":    cors.ReasonCode(decision.Reason),
	}).Debug("cors request rejected")
}

// RequestFromFiber builds the CORS view of a fiber request. Strings are copied
// out of the fasthttp buffers: the result outlives the handler when it is
// queued on the metrics worker.
func RequestFromFiber(c *fiber.Ctx) cors.Request {
	var requested []string
	for _, v := range c.Request().Header.PeekAll(cors.HeaderAccessControlRequestHeaders) {
		requested = append(requested, cors.ParseHeaderList(string(v))...)
	}
	return cors.Request{
		Method:                      utils.CopyString(c.Method()),
		Scheme:                      utils.CopyString(c.Protocol()),
		Host:                        string(c.Request().Host()),
		Path:                        utils.CopyString(c.Path()),
		Origin:                      utils.CopyString(c.Get(cors.HeaderOrigin)),
		AccessControlRequestMethod:  utils.CopyString(c.Get(cors.HeaderAccessControlRequestMethod)),
		AccessControlRequestHeaders: requested,
		UserAgent:                   utils.CopyString(c.Get(fiber.HeaderUserAgent)),
	}
}

func writeHeaders(c *fiber.Ctx, decision cors.Decision) {
	for name, values := range decision.Header {
		if name == cors.HeaderVary {
			for _, v := range values {
				c.Vary(v)
			}
			continue
		}
		for _, v := range values {
			c.Set(name, v)
		}
	}
}

func stripHeaders(c *fiber.Ctx) {
	for _, name := range cors.ResponseHeaders {
		c.Response().Header.Del(name)
	}
}
