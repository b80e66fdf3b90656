package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// maxPageSize is the hard cap the feature service enforces per query
// (maxRecordCount). Asking for more silently returns at most this many.
const maxPageSize = 2000

// Config holds all run settings, populated from environment variables.
// Every default equals the fixed value the map app's data refresh has
// always used, so a run with an empty environment needs no setup.
type Config struct {
	ArcGISBaseURL  string
	PageSize       int
	RequestTimeout time.Duration
	OutputPath     string

	LogLevel  string
	LogFormat string

	// Optional Kafka publishing of normalized features. Disabled unless
	// KAFKA_TOPIC is set.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	pageSize, err := parsePageSize()
	if err != nil {
		return nil, err
	}

	timeout, err := parseRequestTimeout()
	if err != nil {
		return nil, err
	}

	kafkaTopic := os.Getenv("KAFKA_TOPIC")

	cfg := &Config{
		ArcGISBaseURL:  envOrDefault("ARCGIS_BASE_URL", "https://services6.arcgis.com/NThLsKaeOKhGxBBE/arcgis/rest/services/Skyddsrum_220225/FeatureServer/1/query"),
		PageSize:       pageSize,
		RequestTimeout: timeout,
		OutputPath:     envOrDefault("OUTPUT_PATH", "sweden_shelters.json"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "text"),
		KafkaBrokers:   splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:     kafkaTopic,
		KafkaEnabled:   kafkaTopic != "",
	}

	if cfg.ArcGISBaseURL == "" {
		return nil, errors.New("ARCGIS_BASE_URL is required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("OUTPUT_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_TOPIC is set but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePageSize() (int, error) {
	s := os.Getenv("PAGE_SIZE")
	if s == "" {
		return maxPageSize, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid PAGE_SIZE")
	}
	if n > maxPageSize {
		return 0, fmt.Errorf("PAGE_SIZE exceeds the service maximum of %d", maxPageSize)
	}
	return n, nil
}

func parseRequestTimeout() (time.Duration, error) {
	s := os.Getenv("REQUEST_TIMEOUT")
	if s == "" {
		return 60 * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid REQUEST_TIMEOUT")
	}
	return d, nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
