package status

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaSource subscribes to the order-updates topic the hosted backend
// publishes row-update events on.
type KafkaSource struct {
	reader *kafka.Reader
}

func NewKafkaSource(brokers []string, topic, groupID string) *KafkaSource {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
		// Each connection uses a fresh group; start it at the tail so a
		// page open does not replay the topic's retained history. The
		// initial state comes from the refresh snapshot, not the stream.
		StartOffset: kafka.LastOffset,
	})
	return &KafkaSource{reader: reader}
}

func (s *KafkaSource) ReadEvent(ctx context.Context) (Event, error) {
	m, err := s.reader.ReadMessage(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("read status message: %w", err)
	}

	var ev Event
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return Event{}, fmt.Errorf("parse status message: %w", err)
	}
	return ev, nil
}

func (s *KafkaSource) Close() error {
	return s.reader.Close()
}
