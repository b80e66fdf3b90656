// Package kafka publishes normalized shelter features to a topic so
// downstream consumers can pick up a refresh without polling the output file.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/tilfluktsrom/sweden-shelter-etl/internal/config"
	"github.com/tilfluktsrom/sweden-shelter-etl/internal/domain"
)

// Writer produces shelter features to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes every feature of the collection and writes them in a
// single WriteMessages call.
func (w *Writer) Publish(ctx context.Context, col domain.ShelterCollection) error {
	if len(col.Features) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(col.Features))
	for i := range col.Features {
		msg, err := serializeToMessage(col.Name, col.Features[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish features: %w", err)
	}
	w.logger.Info("features published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ShelterFeature into a Kafka message keyed by
// its positional index.
func serializeToMessage(collection string, feature domain.ShelterFeature) (kafkago.Message, error) {
	data, err := json.Marshal(feature)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize shelter feature: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(feature.Properties.RoomNr)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "collection", Value: []byte(collection)},
			{Key: "datauttaksdato", Value: []byte(feature.Properties.ExtractedOn)},
		},
	}, nil
}
