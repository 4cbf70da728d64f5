package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Entry is one audit record. The stream is emit-only; retrieval is a
// consumer-side concern.
type Entry struct {
	ActorID   uint      `json:"actor_id,omitempty"`
	ActorRole string    `json:"actor_role"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Outcome   string    `json:"outcome"`
	At        time.Time `json:"at"`
}

// Publisher writes moderation and admin actions to a kafka topic,
// fire-and-forget. A nil Publisher is a no-op so the stream can be
// disabled by configuration.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	return &Publisher{writer: w, logger: logger}
}

func (p *Publisher) Emit(e Entry) {
	if p == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	value, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("audit entry marshal failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Target),
		Value: value,
	}); err != nil {
		p.logger.Warn("audit emit failed", zap.String("action", e.Action), zap.Error(err))
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
