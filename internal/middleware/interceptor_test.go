package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/observability"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

var info = &grpc.UnaryServerInfo{FullMethod: "/omnipos.ledger.v1.TransactionService/CreateTransaction"}

func newObserved() (logger.ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewFromZap(zap.New(core)), logs
}

func TestInterceptorMapsDomainErrors(t *testing.T) {
	log, logs := newObserved()
	metrics := observability.NewMetrics()
	intercept := UnaryServerInterceptor(log, metrics)

	_, err := intercept(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, &model.InsufficientStockError{ProductName: "Widget", Available: 2, Requested: 5}
	})

	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.FailedPrecondition, s.Code())

	entries := logs.FilterMessage("grpc request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "FailedPrecondition", entries[0].ContextMap()["code"])

	assert.Contains(t, collectText(t, metrics), `ledger_grpc_requests_total{code="FailedPrecondition",method="/omnipos.ledger.v1.TransactionService/CreateTransaction"} 1`)
}

func TestInterceptorPropagatesRequestID(t *testing.T) {
	log, logs := newObserved()
	intercept := UnaryServerInterceptor(log, nil)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-42"))
	var seen string
	resp, err := intercept(ctx, "in", info, func(ctx context.Context, req any) (any, error) {
		seen = GetRequestID(ctx)
		return "out", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "out", resp)
	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
}

func TestInterceptorGeneratesRequestID(t *testing.T) {
	log, _ := newObserved()
	var seen string
	_, err := UnaryServerInterceptor(log, nil)(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 36)
}

func TestInterceptorRecoversPanic(t *testing.T) {
	log, logs := newObserved()
	_, err := UnaryServerInterceptor(log, nil)(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, 1, logs.FilterMessage("panic in grpc handler").Len())
}

func TestInterceptorUnknownErrorIsInternal(t *testing.T) {
	log, logs := newObserved()
	_, err := UnaryServerInterceptor(log, nil)(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, errors.New("connection reset")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, zapcore.ErrorLevel, logs.FilterMessage("grpc request").All()[0].Level)
}

func collectText(t *testing.T, m *observability.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
