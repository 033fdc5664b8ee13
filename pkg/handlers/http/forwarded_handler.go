package http

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/config"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/NeuralTrust/CorsGate/pkg/infra/httpx"
	"github.com/NeuralTrust/CorsGate/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

var errUpstreamStatus = errors.New("upstream server error")

var hopByHopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

type forwardedHandler struct {
	logger   *logrus.Logger
	client   *fasthttp.Client
	breaker  httpx.CircuitBreaker
	upstream *url.URL
	timeout  time.Duration
}

// NewForwardedHandler relays requests that passed the cors middleware to the
// configured upstream. Without an upstream every request gets 404.
func NewForwardedHandler(
	logger *logrus.Logger,
	cfg config.UpstreamConfig,
	breaker httpx.CircuitBreaker,
) Handler {
	h := &forwardedHandler{
		logger:  logger,
		breaker: breaker,
		timeout: cfg.Timeout,
		client: &fasthttp.Client{
			ReadTimeout:                   cfg.Timeout,
			WriteTimeout:                  cfg.Timeout,
			MaxConnsPerHost:               16384,
			MaxIdleConnDuration:           120 * time.Second,
			ReadBufferSize:                32768,
			WriteBufferSize:               32768,
			NoDefaultUserAgentHeader:      true,
			DisableHeaderNamesNormalizing: true,
			DisablePathNormalizing:        true,
		},
	}
	if h.timeout <= 0 {
		h.timeout = 30 * time.Second
	}
	if cfg.URL != "" {
		u, err := url.Parse(cfg.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			logger.WithField("url", cfg.URL).Error("invalid upstream url, forwarding disabled")
		} else {
			h.upstream = u
		}
	}
	return h
}

func (h *forwardedHandler) Handle(c *fiber.Ctx) error {
	if h.upstream == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no upstream configured"})
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	h.buildFastHTTPRequest(c, req)

	startTime := time.Now()
	err := h.breaker.Execute(func() error {
		if err := h.client.DoTimeout(req, resp, h.timeout); err != nil {
			return err
		}
		if resp.StatusCode() >= fiber.StatusInternalServerError {
			return fmt.Errorf("%w: %d", errUpstreamStatus, resp.StatusCode())
		}
		return nil
	})
	if prometheus.Config.EnableLatency {
		prometheus.RequestLatency.WithLabelValues("upstream").Observe(float64(time.Since(startTime).Milliseconds()))
	}

	switch {
	case err == nil, errors.Is(err, errUpstreamStatus):
	case httpx.IsOpen(err):
		h.logger.WithError(err).Warn("upstream circuit open")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "upstream unavailable"})
	default:
		h.logger.WithError(err).WithField("upstream", h.upstream.Host).Error("failed to forward request")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream"})
	}

	h.copyResponse(c, resp)
	return nil
}

func (h *forwardedHandler) buildFastHTTPRequest(c *fiber.Ctx, req *fasthttp.Request) {
	c.Request().CopyTo(req)
	for _, name := range hopByHopHeaders {
		req.Header.Del(name)
	}

	target := strings.TrimSuffix(h.upstream.String(), "/") + string(c.Request().RequestURI())
	req.SetRequestURI(target)
	req.Header.SetHost(h.upstream.Host)

	req.Header.Set(fiber.HeaderXForwardedFor, c.IP())
	req.Header.Set(fiber.HeaderXForwardedHost, string(c.Request().Host()))
	req.Header.Set(fiber.HeaderXForwardedProto, c.Protocol())
}

// copyResponse writes the upstream answer back. CORS headers already set by
// the cors middleware win over the upstream's.
func (h *forwardedHandler) copyResponse(c *fiber.Ctx, resp *fasthttp.Response) {
	var set []string
	for _, name := range cors.ResponseHeaders {
		if len(c.Response().Header.Peek(name)) > 0 {
			set = append(set, name)
		}
	}

	c.Status(resp.StatusCode())
	resp.Header.VisitAll(func(key, value []byte) {
		k := string(key)
		if containsFold(hopByHopHeaders, k) || containsFold(set, k) ||
			strings.EqualFold(k, fiber.HeaderContentLength) {
			return
		}
		if strings.EqualFold(k, cors.HeaderVary) {
			c.Vary(string(value))
			return
		}
		c.Response().Header.Add(k, string(value))
	})
	c.Response().SetBodyRaw(append([]byte(nil), resp.Body()...))
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
