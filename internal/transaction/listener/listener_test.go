package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/product/producttest"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction/transactiontest"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction/usecase"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

// queueReader hands out queued messages, then fails until the context is cancelled.
type queueReader struct {
	mu    sync.Mutex
	queue [][]byte
	reads int
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	q.mu.Lock()
	q.reads++
	if len(q.queue) > 0 {
		value := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()
		return kafka.Message{Value: value}, nil
	}
	q.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{}, errors.New("no more messages")
}

func command(t *testing.T, cmdType string, payload TransactionPayload) []byte {
	t.Helper()
	b, err := json.Marshal(TransactionCommand{CommandID: "cmd-1", CommandType: cmdType, Payload: payload, Timestamp: time.Now()})
	require.NoError(t, err)
	return b
}

func setup(t *testing.T, stock int) (*producttest.MemoryRepository, *transactiontest.MemoryRepository, *TransactionListener, *observer.ObservedLogs) {
	t.Helper()
	p, err := model.NewProduct(model.ProductParams{ID: "w", Name: "Widget", CostPrice: decimal.NewFromInt(10), SalePrice: decimal.NewFromInt(20), Stock: stock})
	require.NoError(t, err)
	products := producttest.NewMemoryRepository(p)
	txs := transactiontest.NewMemoryRepository()

	core, logs := observer.New(zap.InfoLevel)
	log := logger.NewFromZap(zap.New(core))
	uc := usecase.NewTransactionUseCase(txs, products, usecase.Options{}, log)
	return products, txs, NewTransactionListener(&queueReader{}, uc, log), logs
}

func TestProcessMessageRecordsSale(t *testing.T) {
	products, txs, l, _ := setup(t, 5)

	l.processMessage(context.Background(), command(t, CommandTransactionRequested, TransactionPayload{
		Type:  "sale",
		Items: []ItemPayload{{ProductID: "w", Quantity: 2}},
	}))

	assert.Equal(t, 1, txs.Len())
	assert.Equal(t, 3, products.Stock("w"))
}

func TestProcessMessageIgnoresOtherCommands(t *testing.T) {
	_, txs, l, _ := setup(t, 5)

	l.processMessage(context.Background(), command(t, "ProductRenamed", TransactionPayload{Type: "aporte", Value: decimal.NewFromInt(5)}))
	l.processMessage(context.Background(), []byte("{not json"))

	assert.Zero(t, txs.Len())
}

func TestProcessMessageRejectsShortStock(t *testing.T) {
	products, txs, l, logs := setup(t, 1)

	l.processMessage(context.Background(), command(t, CommandTransactionRequested, TransactionPayload{
		Type:  "sale",
		Items: []ItemPayload{{ProductID: "w", Quantity: 2}},
	}))

	assert.Zero(t, txs.Len())
	assert.Equal(t, 1, products.Stock("w"))
	assert.Equal(t, 1, logs.FilterMessage("transaction command rejected").Len())
}

func TestStartConsumesUntilCancelled(t *testing.T) {
	_, txs, l, _ := setup(t, 5)
	reader := &queueReader{queue: [][]byte{
		command(t, CommandTransactionRequested, TransactionPayload{Type: "aporte", Value: decimal.NewFromInt(100)}),
		command(t, CommandTransactionRequested, TransactionPayload{Type: "payment", Value: decimal.NewFromInt(30)}),
	}}
	l.reader = reader

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return txs.Len() == 2 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}
}
