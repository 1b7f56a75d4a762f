package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

// Producer is the slice of broker.KafkaProducer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte, headers map[string]string) error
}

type TransactionEvent struct {
	EventID   string             `json:"event_id"`
	EventType string             `json:"event_type"`
	Timestamp time.Time          `json:"timestamp"`
	Payload   *model.Transaction `json:"payload"`
}

type KafkaPublisher struct {
	producer Producer
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewKafkaPublisher(producer Producer, log logger.ZapLogger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: log, now: time.Now}
}

// Publish keys the message by transaction id so every event of one transaction stays ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, tx *model.Transaction) error {
	event := TransactionEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: p.now().UTC(),
		Payload:   tx,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	headers := map[string]string{"event_type": eventType, "event_id": event.EventID}
	if err := p.producer.Publish(ctx, tx.ID, value, headers); err != nil {
		return err
	}

	p.logger.Debug("transaction event published",
		zap.String("event_id", event.EventID),
		zap.String("event_type", eventType),
		zap.String("transaction_id", tx.ID),
	)
	return nil
}
