package headers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Config holds the response header settings.
type Config struct {
	// AllowOrigin is sent as Access-Control-Allow-Origin. Defaults to "*".
	AllowOrigin string
}

const (
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Content-Type, Authorization, X-API-Key, X-Ray-ID"
)

// New returns a middleware that sets CORS and cache-disabling headers on every
// response and answers preflight requests with an empty 200.
func New(cfg Config) fiber.Handler {
	origin := cfg.AllowOrigin
	if origin == "" {
		origin = "*"
	}

	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		c.Set(fiber.HeaderAccessControlAllowMethods, allowMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, allowHeaders)
		c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
		c.Set(fiber.HeaderPragma, "no-cache")
		c.Set(fiber.HeaderExpires, "0")

		if c.Method() == fiber.MethodOptions {
			c.Status(fiber.StatusOK)
			return nil
		}
		return c.Next()
	}
}

// MethodNotAllowed returns a handler answering 405 with an Allow header.
// Register it with All after the route's real handlers.
func MethodNotAllowed(methods ...string) fiber.Handler {
	allow := strings.Join(append(methods, fiber.MethodOptions), ", ")
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAllow, allow)
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"success": false,
			"error":   "Method not allowed",
		})
	}
}
