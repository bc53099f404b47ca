package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/quake-threat-map/internal/config"
	"github.com/couchcryptid/quake-threat-map/internal/domain"
)

// QuakeEvent is the message payload for one classified earthquake.
type QuakeEvent struct {
	ID             string          `json:"id"`
	Kind           domain.Kind     `json:"kind"`
	Location       domain.Location `json:"location"`
	Magnitude      float64         `json:"magnitude"`
	Depth          float64         `json:"depth"`
	Title          string          `json:"title"`
	Time           time.Time       `json:"time,omitzero"`
	Age            string          `json:"age,omitempty"`
	Country        string          `json:"country,omitempty"`
	ThreatRadiusKm float64         `json:"threat_radius_km"`
	DepthClass     string          `json:"depth_class"`
	MagnitudeClass string          `json:"magnitude_class"`
	PublishedAt    time.Time       `json:"published_at"`
}

// Writer produces classified quake messages to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, clock: clockwork.NewRealClock(), logger: logger}
}

// PublishBatch serializes and publishes quake markers in a single
// WriteMessages call. Cities are skipped.
func (w *Writer) PublishBatch(ctx context.Context, quakes []*domain.Marker) error {
	now := w.clock.Now().UTC()
	msgs := make([]kafkago.Message, 0, len(quakes))
	for _, q := range quakes {
		if !q.IsQuake() {
			continue
		}
		msg, err := serializeToMessage(q, now)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write messages: %w", err)
	}
	w.logger.Debug("quakes published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func newQuakeEvent(m *domain.Marker, publishedAt time.Time) QuakeEvent {
	return QuakeEvent{
		ID:             m.ID,
		Kind:           m.Kind,
		Location:       m.Location,
		Magnitude:      m.Quake.Magnitude,
		Depth:          m.Quake.Depth,
		Title:          m.Quake.Title,
		Time:           m.Quake.Time,
		Age:            m.Quake.Age,
		Country:        m.Quake.Country,
		ThreatRadiusKm: m.ThreatRadiusKm(),
		DepthClass:     domain.DepthClass(m.Quake.Depth),
		MagnitudeClass: domain.MagnitudeClass(m.Quake.Magnitude),
		PublishedAt:    publishedAt,
	}
}

// serializeToMessage marshals a quake marker into a Kafka message keyed by quake ID.
func serializeToMessage(m *domain.Marker, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(newQuakeEvent(m, publishedAt))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize quake %s: %w", m.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(m.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(m.Kind.String())},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
