package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "sales-events", cfg.Kafka.TopicSales)
	assert.Equal(t, 3, cfg.Kafka.MaxAttempts)
	assert.Equal(t, 10, cfg.Kafka.WriteTimeoutSeconds)
	assert.Equal(t, 0.1, cfg.Observ.TraceSampleRatio)
	assert.Equal(t, 5, cfg.Business.DefaultLowStockThreshold)
	assert.Equal(t, 8, cfg.Business.BarcodeMinLength)
}

func TestLoadKafkaBrokerList(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg := Load()
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}
