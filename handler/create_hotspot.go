package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Shopify/sarama"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/openwifimap/backend-api-go/hotspots"
	log "github.com/openwifimap/backend-api-go/pkg/logger"
	"github.com/openwifimap/backend-api-go/repository"
	"go.uber.org/zap"
)

type createHotspotResponse struct {
	Message   string             `json:"message"`
	Location  hotspots.Place     `json:"location"`
	Hotspot   hotspots.Item      `json:"hotspot"`
	SpeedTest hotspots.SpeedTest `json:"speedTest"`
}

// createHotspot godoc
// @Summary            Record a submitted hotspot with its location and speed test
// @Tags               Hotspot
// @Accept             json
// @Produce            json
// @Success            201 {object} createHotspotResponse
// @Param              body body hotspots.SubmitRequest true "RequestBody"
// @Router             /api/hotspots [POST]
func CreateHotspotHandler(repo *repository.Repository, producer sarama.SyncProducer) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req hotspots.SubmitRequest
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(hotspots.ErrorResponse{Message: fmt.Sprintf("failed to decode request. err: %s", err)})
		}

		if missing := missingFields(req); len(missing) > 0 {
			return ctx.Status(fiber.StatusBadRequest).JSON(hotspots.ErrorResponse{
				Message: fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
			})
		}

		category := req.Category
		if category == "" {
			category = hotspots.CategoryOpen
		}
		if !category.Valid() {
			return ctx.Status(fiber.StatusBadRequest).JSON(hotspots.ErrorResponse{
				Message: fmt.Sprintf("Invalid category: %s", req.Category),
			})
		}

		externalID := req.Location.ID
		if externalID == "" {
			// Geocoder ids are positional and unstable, derive a stable one
			// from what identifies the place.
			externalID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(req.Location.Name+"|"+req.Location.Address)).String()
		}

		params := repository.CreateHotspotParams{
			ExternalID:   externalID,
			Name:         req.Location.Name,
			Address:      req.Location.Address,
			LocationType: req.Location.Type,
			Coordinates:  req.Location.Coordinates,
			WifiName:     req.WifiName,
			WifiPassword: req.WifiPassword,
			Category:     category,
			Description:  req.Description,
			Download:     parseReading(req.SpeedTest.Download),
			Upload:       parseReading(req.SpeedTest.Upload),
			Ping:         parseReading(req.SpeedTest.Ping),
			Submitter:    req.SubmitterInfo,
		}

		result, err := repo.CreateHotspot(ctx.Context(), params)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateHotspot) {
				return ctx.Status(fiber.StatusBadRequest).JSON(hotspots.ErrorResponse{
					Message: "Hotspot already exists at this location with the same WiFi name.",
				})
			}
			return ctx.Status(fiber.StatusInternalServerError).JSON(hotspots.ErrorResponse{Message: err.Error()})
		}

		if result.Location.Coordinates == nil && producer != nil {
			publishSubmittedEvent(producer, result.Location)
		}

		return ctx.Status(fiber.StatusCreated).JSON(createHotspotResponse{
			Message:   "Hotspot created successfully.",
			Location:  result.Location,
			Hotspot:   result.Hotspot,
			SpeedTest: result.SpeedTest,
		})
	}
}

func missingFields(req hotspots.SubmitRequest) []string {
	var missing []string
	if req.Location.Name == "" {
		missing = append(missing, "location.name")
	}
	if req.Location.Address == "" {
		missing = append(missing, "location.address")
	}
	if req.WifiName == "" {
		missing = append(missing, "wifiName")
	}
	if req.SubmitterInfo.Name == "" {
		missing = append(missing, "submitterInfo.name")
	}
	if req.SubmitterInfo.Email == "" {
		missing = append(missing, "submitterInfo.email")
	}
	return missing
}

// parseReading converts one submitted speed test value. Blank or
// unparseable input counts as 0, never an error.
func parseReading(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return v
}

// publishSubmittedEvent asks the consumer to geocode the new location.
// Failures only log; the submission itself already succeeded.
func publishSubmittedEvent(producer sarama.SyncProducer, place hotspots.Place) {
	payload, _ := jsoniter.Marshal(hotspots.LocationSubmittedEvent{
		LocationID: place.ID,
		ExternalID: place.ExternalID,
		Name:       place.Name,
		Address:    place.Address,
	})

	_, _, err := producer.SendMessage(&sarama.ProducerMessage{
		Topic: hotspots.SubmittedTopicName,
		Key:   sarama.StringEncoder(place.ExternalID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		log.Logger().Error("failed to publish submitted event", zap.Int64("locationID", place.ID), zap.Error(err))
	}
}
