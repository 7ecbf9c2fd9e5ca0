package handler

import (
	"errors"
	"strconv"

	"github.com/ggwhite/go-masker"
	"github.com/gofiber/fiber/v2"
	"github.com/openwifimap/backend-api-go/hotspots"
	"github.com/openwifimap/backend-api-go/repository"
)

const defaultListLimit = 100

// getHotspots godoc
// @Summary            List hotspots, each with its latest speed test
// @Tags               Hotspot
// @Produce            json
// @Success            200 {object} []hotspots.Item
// @Param              externalId query string false "Location external id"
// @Param              limit query integer false "Max records, default 100"
// @Router             /api/hotspots [GET]
func GetHotspotsHandler(repo *repository.Repository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		externalID := ctx.Query("externalId", "")
		if externalID != "" {
			place, err := repo.GetLocationByExternalID(ctx.Context(), externalID)
			if err != nil {
				if errors.Is(err, repository.ErrLocationNotFound) {
					return ctx.Status(fiber.StatusNotFound).JSON(hotspots.ErrorResponse{Message: "Location not found."})
				}
				return ctx.Status(fiber.StatusInternalServerError).JSON(hotspots.ErrorResponse{Message: err.Error()})
			}

			items, err := repo.ListHotspotsByLocation(ctx.Context(), place.ID)
			if err != nil {
				return ctx.Status(fiber.StatusInternalServerError).JSON(hotspots.ErrorResponse{Message: err.Error()})
			}

			return ctx.JSON(hotspots.LocationHotspots{
				Place:    *place,
				Hotspots: maskSubmitters(items),
			})
		}

		limit, err := strconv.Atoi(ctx.Query("limit"))
		if err != nil || limit <= 0 {
			limit = defaultListLimit
		}

		items, err := repo.ListHotspots(ctx.Context(), limit)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(hotspots.ErrorResponse{Message: err.Error()})
		}

		return ctx.JSON(maskSubmitters(items))
	}
}

// maskSubmitters hides submitter PII before a record leaves the service.
func maskSubmitters(items []hotspots.Item) []hotspots.Item {
	if items == nil {
		return []hotspots.Item{}
	}
	for i := range items {
		items[i].SubmitterInfo.Name = masker.Name(items[i].SubmitterInfo.Name)
		items[i].SubmitterInfo.Email = masker.Email(items[i].SubmitterInfo.Email)
	}
	return items
}
