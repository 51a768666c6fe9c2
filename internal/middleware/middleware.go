package middleware

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/internal/api/presenters"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

var (
	allowMethods = []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodOptions, fiber.MethodDelete}
	allowHeaders = []string{fiber.HeaderContentType, fiber.HeaderAuthorization, "ngrok-skip-browser-warning"}
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		PreflightHandler() fiber.Handler
		RateLimiter(limit int) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: strings.Join(allowMethods, ", "),
		AllowHeaders: strings.Join(allowHeaders, ", "),
	})
}

// PreflightHandler answers any OPTIONS request that reaches the router with
// 204 and the CORS headers, including requests that are not a full preflight.
func (m *middleware) PreflightHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowMethods, strings.Join(allowMethods, ", "))
		c.Set(fiber.HeaderAccessControlAllowHeaders, strings.Join(allowHeaders, ", "))
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RateLimiter caps requests per IP per second. OPTIONS requests are never
// counted. It must run after CORSMiddleware so 429 responses keep the CORS
// headers.
func (m *middleware) RateLimiter(limit int) fiber.Handler {
	return limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		Max:        limit,
		Expiration: 1 * time.Second,
		LimitReached: func(c *fiber.Ctx) error {
			return presenters.ErrorResponse(c, fiber.StatusTooManyRequests, domain.MessageTooManyRequests, nil)
		},
	})
}
