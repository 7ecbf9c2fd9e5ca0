package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/openwifimap/backend-api-go/hotspots"
)

// relationships is the fixed vocabulary for how a submitter knows the place.
var relationships = []string{
	"customer",
	"employee",
	"owner",
}

type GetCategoriesResponse struct {
	Categories    []hotspots.Category `json:"categories"`
	Relationships []string            `json:"relationships"`
}

// getCategories godoc
// @Summary            List the valid hotspot categories and submitter relationships
// @Tags               Hotspot
// @Produce            json
// @Success            200 {object} GetCategoriesResponse
// @Router             /api/categories [GET]
func GetCategoriesHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		response := GetCategoriesResponse{
			Categories:    hotspots.Categories(),
			Relationships: relationships,
		}
		return ctx.JSON(response)
	}
}
