package broker

import (
	"log"
	"os"
	"strings"

	"github.com/Shopify/sarama"
)

func NewConsumerGroup(group string) (sarama.ConsumerGroup, error) {
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		log.Panic("KAFKA_BROKERS env variable must be set")
	}
	brokers := strings.Split(kafkaBrokers, ",")

	config := sarama.NewConfig()

	return sarama.NewConsumerGroup(brokers, group, config)
}
