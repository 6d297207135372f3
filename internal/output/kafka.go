package output

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"intraday-arb/internal/config"
	"intraday-arb/internal/intraday"
	"intraday-arb/internal/model"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OpportunityMessage is the payload of one Kafka record.
type OpportunityMessage struct {
	ScanID      string            `json:"scan_id"`
	Index       int               `json:"index"`
	Opportunity model.Opportunity `json:"opportunity"`
}

// KafkaSink publishes one message per opportunity, keyed by window start so
// repeated scans of the same window land on the same partition.
type KafkaSink struct {
	writer messageWriter
	topic  string
}

func NewKafkaSink(cfg config.KafkaConfig) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka sink: brokers are required")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		BatchTimeout: 200 * time.Millisecond,
	}
	return NewKafkaSinkWithWriter(w, cfg.Topic), nil
}

func NewKafkaSinkWithWriter(w messageWriter, topic string) *KafkaSink {
	return &KafkaSink{writer: w, topic: topic}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Write(ctx context.Context, res *intraday.Result) error {
	if len(res.Opportunities) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(res.Opportunities))
	for i, o := range res.Opportunities {
		v, err := json.Marshal(OpportunityMessage{ScanID: res.ID, Index: i, Opportunity: o})
		if err != nil {
			return fmt.Errorf("marshal opportunity %d: %w", i, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(o.WindowStart.UTC().Format(time.RFC3339)),
			Value: v,
			Time:  res.CreatedAt,
		})
	}
	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish to %s: %w", s.topic, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
