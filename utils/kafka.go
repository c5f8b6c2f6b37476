package utils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ======================
// Kafka (invitation queue)
// ======================

var (
	kafkaWriter *kafka.Writer
	kafkaTopic  string
)

func kafkaBrokers() []string {
	raw := os.Getenv("KAFKA_BROKERS")
	if raw == "" {
		raw = "localhost:9092"
	}
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		brokers = append(brokers, strings.TrimSpace(b))
	}
	return brokers
}

// InitializeKafka prepares the shared writer used to queue invitation messages
func InitializeKafka() {
	kafkaTopic = os.Getenv("KAFKA_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "invitation-events"
	}

	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(kafkaBrokers()...),
		Topic:        kafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	fmt.Println("✅ Kafka writer ready, topic:", kafkaTopic)
}

// PublishMessage queues one message; callers treat failures as non-fatal
func PublishMessage(ctx context.Context, key string, value []byte) error {
	if kafkaWriter == nil {
		return fmt.Errorf("kafka not initialized")
	}
	return kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

// NewKafkaReader creates a consumer for the invitation topic
func NewKafkaReader(groupID string) *kafka.Reader {
	topic := kafkaTopic
	if topic == "" {
		topic = "invitation-events"
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkaBrokers(),
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}
