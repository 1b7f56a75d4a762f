package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction/dto"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

const CommandTransactionRequested = "TransactionRequested"

const readRetryDelay = time.Second

// MessageReader is satisfied by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// TransactionListener records transactions requested by other services, such as a point of
// sale closing an order.
type TransactionListener struct {
	reader MessageReader
	uc     transaction.UseCase
	logger logger.ZapLogger
}

func NewTransactionListener(reader MessageReader, uc transaction.UseCase, log logger.ZapLogger) *TransactionListener {
	return &TransactionListener{
		reader: reader,
		uc:     uc,
		logger: log,
	}
}

// Start blocks until ctx is cancelled.
func (l *TransactionListener) Start(ctx context.Context) {
	l.logger.Info("starting transaction command listener")
	for {
		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("stopping transaction command listener")
				return
			}
			l.logger.Error("failed to read kafka message", zap.Error(err))
			select {
			case <-ctx.Done():
				l.logger.Info("stopping transaction command listener")
				return
			case <-time.After(readRetryDelay):
			}
			continue
		}
		l.processMessage(ctx, msg.Value)
	}
}

type TransactionCommand struct {
	CommandID   string             `json:"command_id"`
	CommandType string             `json:"command_type"`
	Payload     TransactionPayload `json:"payload"`
	Timestamp   time.Time          `json:"timestamp"`
}

type TransactionPayload struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Discount    decimal.Decimal `json:"discount"`
	Date        time.Time       `json:"date"`
	Items       []ItemPayload   `json:"items"`
}

type ItemPayload struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

func (l *TransactionListener) processMessage(ctx context.Context, value []byte) {
	var cmd TransactionCommand
	if err := json.Unmarshal(value, &cmd); err != nil {
		l.logger.Error("failed to unmarshal command", zap.Error(err))
		return
	}

	if cmd.CommandType != CommandTransactionRequested {
		return
	}

	l.logger.Info("processing TransactionRequested command",
		zap.String("command_id", cmd.CommandID),
		zap.String("type", cmd.Payload.Type),
	)

	input := &dto.CreateTransactionInput{
		Type:        cmd.Payload.Type,
		Description: cmd.Payload.Description,
		Value:       cmd.Payload.Value,
		Discount:    cmd.Payload.Discount,
		Date:        cmd.Payload.Date,
	}
	for _, item := range cmd.Payload.Items {
		input.Items = append(input.Items, dto.ItemInput{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	tx, err := l.uc.CreateTransaction(ctx, input)
	if err != nil {
		// Rejected commands are dropped. Redelivering them would fail the same way.
		fields := []zap.Field{zap.String("command_id", cmd.CommandID), zap.Error(err)}
		if errors.Is(err, model.ErrValidation) || errors.Is(err, model.ErrInsufficientStock) || errors.Is(err, model.ErrNotFound) {
			l.logger.Warn("transaction command rejected", fields...)
		} else {
			l.logger.Error("failed to record requested transaction", fields...)
		}
		return
	}

	l.logger.Info("requested transaction recorded",
		zap.String("command_id", cmd.CommandID),
		zap.String("transaction_id", tx.ID),
	)
}
