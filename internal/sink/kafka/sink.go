package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/alexanderjulianmartinez/table-watch/internal/runner"
)

// Sink publishes check outcomes to a Kafka topic, one JSON message per
// outcome, keyed by table name.
type Sink struct {
	writer *kafkago.Writer
}

func New(brokers []string, topic string) *Sink {
	return &Sink{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkago.LeastBytes{},
		},
	}
}

type outcomeMessage struct {
	RunID string `json:"run_id"`
	runner.CheckOutcome
}

func (s *Sink) Publish(ctx context.Context, report *runner.Report) error {
	msgs := make([]kafkago.Message, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		value, err := json.Marshal(outcomeMessage{
			RunID:        report.RunID,
			CheckOutcome: outcome,
		})
		if err != nil {
			return fmt.Errorf("encode outcome: %w", err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(outcome.Table),
			Value: value,
		})
	}
	if len(msgs) == 0 {
		return nil
	}
	return s.writer.WriteMessages(ctx, msgs...)
}

func (s *Sink) Close() error {
	return s.writer.Close()
}
