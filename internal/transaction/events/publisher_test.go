package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

type published struct {
	key     string
	value   []byte
	headers map[string]string
}

type fakeProducer struct {
	msgs []published
	err  error
}

func (f *fakeProducer) Publish(_ context.Context, key string, value []byte, headers map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{key: key, value: value, headers: headers})
	return nil
}

var _ transaction.EventPublisher = (*KafkaPublisher)(nil)

func TestPublishEncodesEvent(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewKafkaPublisher(producer, logger.NewNop())
	pub.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	tx := &model.Transaction{
		ID:    "tx-1",
		Type:  model.TransactionSale,
		Value: decimal.RequireFromString("60"),
		Date:  time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
		Items: []model.TransactionItem{{ProductID: "p1", Quantity: 3, UnitPrice: decimal.RequireFromString("20")}},
	}
	require.NoError(t, pub.Publish(context.Background(), transaction.EventTransactionCreated, tx))

	require.Len(t, producer.msgs, 1)
	msg := producer.msgs[0]
	assert.Equal(t, "tx-1", msg.key)
	assert.Equal(t, transaction.EventTransactionCreated, msg.headers["event_type"])

	var event TransactionEvent
	require.NoError(t, json.Unmarshal(msg.value, &event))
	assert.Equal(t, transaction.EventTransactionCreated, event.EventType)
	assert.Equal(t, msg.headers["event_id"], event.EventID)
	assert.Equal(t, "tx-1", event.Payload.ID)
	assert.True(t, event.Payload.Value.Equal(decimal.RequireFromString("60")))
	assert.Equal(t, 3, event.Payload.Items[0].Quantity)
}

func TestPublishReturnsProducerError(t *testing.T) {
	pub := NewKafkaPublisher(&fakeProducer{err: errors.New("broker down")}, logger.NewNop())
	err := pub.Publish(context.Background(), transaction.EventTransactionDeleted, &model.Transaction{ID: "x"})
	assert.EqualError(t, err, "broker down")
}
