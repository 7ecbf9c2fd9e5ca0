package cache

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/openwifimap/backend-api-go/cache"
)

const responseTTL = 5 * time.Minute

// New caches GET responses in redis, keyed by a SHA1 UUID of the request
// URI. Write methods drop the entry for their URI so a fresh submission is
// visible on the next read.
func New() fiber.Handler {
	cacheRepo := cache.NewRedisRepository()
	return func(c *fiber.Ctx) error {
		if c.Path() == "/healthcheck" ||
			c.Path() == "/metrics" ||
			c.Path() == "/monitor" {
			return c.Next()
		}

		reqURI := c.OriginalURL()
		hashURL := uuid.NewSHA1(uuid.NameSpaceOID, []byte(reqURI)).String()
		if c.Method() != http.MethodGet {
			if err := cacheRepo.Delete(hashURL); err != nil {
				fmt.Println(err)
			}
			return c.Next()
		}

		cacheData := cacheRepo.Get(hashURL)
		if len(cacheData) == 0 {
			c.Next()
			if c.Response().StatusCode() == fiber.StatusOK && len(c.Response().Body()) > 0 {
				cacheRepo.SetKey(hashURL, c.Response().Body(), responseTTL)
			}
			return nil
		}

		c.Set("x-cached-response", "true")
		c.Response().SetBodyRaw(cacheData)
		c.Response().Header.SetContentType(fiber.MIMEApplicationJSON)
		return nil
	}
}
