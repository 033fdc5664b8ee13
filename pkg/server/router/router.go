package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var ErrInvalidTransport = errors.New("invalid handler or middleware transport")

type ServerRouter interface {
	BuildRoutes(router *fiber.App) error
}
