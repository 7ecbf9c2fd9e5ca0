package consumer

import (
	"context"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/openwifimap/backend-api-go/geocode"
	"github.com/openwifimap/backend-api-go/hotspots"
	log "github.com/openwifimap/backend-api-go/pkg/logger"
	"github.com/openwifimap/backend-api-go/repository"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Consumer resolves coordinates for submitted locations: it reads
// submission events, geocodes the address and writes the result back.
type Consumer struct {
	Ready    chan bool
	repo     *repository.Repository
	geocoder *geocode.Client
	consumer *sarama.ConsumerGroup
	Counter  *prometheus.CounterVec
}

func NewConsumer(consumerGroup *sarama.ConsumerGroup) *Consumer {
	return &Consumer{
		Ready:    make(chan bool),
		repo:     repository.New(),
		geocoder: geocode.New(),
		consumer: consumerGroup,
	}
}

func (consumer *Consumer) Start(ctx context.Context) {
	go func() {
		for {
			if err := (*consumer.consumer).Consume(ctx, []string{hotspots.SubmittedTopicName}, consumer); err != nil {
				log.Logger().Panic("Error from consumer:", zap.Error(err))
			}
			// check if context was cancelled, signaling that the consumer should stop
			if ctx.Err() != nil {
				return
			}
			consumer.Ready = make(chan bool)
		}
	}()
	<-consumer.Ready
	log.Logger().Info("Sarama consumer up and running!...")
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	// Mark the consumer as ready
	close(consumer.Ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				// sarama closes the claim channel on rebalance.
				return nil
			}
			if consumer.Counter != nil {
				consumer.Counter.With(prometheus.Labels{
					"topic":     message.Topic,
					"timestamp": fmt.Sprintf("%d", message.Timestamp.Unix()),
				}).Inc()
			}
			if message.Topic == hotspots.SubmittedTopicName {
				consumer.geocodeResolveHandle(message, session)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}
