package auth

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const ApiKeyHeaderName = "X-Api-Key"

// New guards write endpoints and pprof behind the shared api key.
func New() fiber.Handler {
	apiKey := os.Getenv("ApiKey")

	return func(ctx *fiber.Ctx) error {
		apiKeyNeeded := false

		if strings.Contains(ctx.Path(), "pprof") || ctx.Method() == fiber.MethodPost {
			apiKeyNeeded = true
		}

		if apiKeyNeeded && ctx.GetReqHeaders()[ApiKeyHeaderName] != apiKey {
			return ctx.SendStatus(fiber.StatusUnauthorized)
		}

		return ctx.Next()
	}
}
