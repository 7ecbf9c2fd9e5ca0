package consumer

import (
	"context"
	"time"

	"github.com/Shopify/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/openwifimap/backend-api-go/hotspots"
	log "github.com/openwifimap/backend-api-go/pkg/logger"
	"go.uber.org/zap"
)

func (consumer *Consumer) geocodeResolveHandle(message *sarama.ConsumerMessage, session sarama.ConsumerGroupSession) {
	var event hotspots.LocationSubmittedEvent
	if err := jsoniter.Unmarshal(message.Value, &event); err != nil {
		log.Logger().Error("geocodeResolveHandle deserialization error", zap.String("payload", string(message.Value)), zap.Error(err))
		session.MarkMessage(message, "")
		session.Commit()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := consumer.geocoder.Search(ctx, event.Address)
	if err != nil {
		// Left unmarked on purpose: geocoding is flaky, a later session retries.
		log.Logger().Error("could not geocode submitted location", zap.Int64("locationID", event.LocationID), zap.Error(err))
		return
	}

	var resolved *hotspots.Coordinates
	for _, result := range results {
		if result.Coordinates != nil {
			resolved = &hotspots.Coordinates{Lat: result.Coordinates.Lat, Lng: result.Coordinates.Lng}
			break
		}
	}

	if resolved == nil {
		log.Logger().Info("no geocode result for submitted location",
			zap.Int64("locationID", event.LocationID),
			zap.String("address", event.Address))
		session.MarkMessage(message, "")
		session.Commit()
		return
	}

	if err := consumer.repo.UpdateLocationCoordinates(ctx, event.LocationID, resolved.Lat, resolved.Lng); err != nil {
		log.Logger().Error("error updating location coordinates",
			zap.Int64("locationID", event.LocationID),
			zap.Error(err))
		return
	}

	session.MarkMessage(message, "")
	session.Commit()
}
