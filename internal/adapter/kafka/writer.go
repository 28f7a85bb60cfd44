package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/bewara-landslide-service/internal/config"
	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
)

const publishBatchTimeout = 10 * time.Millisecond

// Writer produces assessment events to a Kafka topic.
// It implements dashboard.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured assessment topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAssessmentTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		// Assessments are written one per request; flush each immediately
		// instead of waiting out the default one-second batch window.
		BatchSize:    1,
		BatchTimeout: publishBatchTimeout,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one assessment and writes it to the topic.
func (w *Writer) Publish(ctx context.Context, a domain.Assessment) error {
	msg, err := serializeToMessage(a)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write assessment %s: %w", a.ID, err)
	}
	w.logger.Debug("assessment published", "id", a.ID, "level", a.Verdict.Level.String())
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Assessment into a Kafka message keyed by its ID.
func serializeToMessage(a domain.Assessment) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(a.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(a.Verdict.Level.String())},
			{Key: "assessed_at", Value: []byte(a.AssessedAt.Format(time.RFC3339))},
			{Key: "revision", Value: []byte(strconv.FormatUint(a.Revision, 10))},
		},
	}, nil
}
