package middleware

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fekuna/omnipos-ledger-service/internal/grpcutil"
	"github.com/fekuna/omnipos-ledger-service/internal/observability"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

// UnaryServerInterceptor tags each call with a request id, turns domain errors into status
// errors, recovers panics and records one access log line plus request metrics.
func UnaryServerInterceptor(log logger.ZapLogger, metrics *observability.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		requestID := requestIDOrNew(ctx)
		ctx = WithRequestID(ctx, requestID)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in grpc handler",
					zap.String("method", info.FullMethod),
					zap.String("request_id", requestID),
					zap.Any("panic", r),
				)
				resp, err = nil, status.Error(codes.Internal, fmt.Sprintf("internal error (request %s)", requestID))
			}

			code := status.Code(err)
			elapsed := time.Since(start)
			metrics.ObserveRequest(info.FullMethod, code.String(), elapsed)

			fields := []zap.Field{
				zap.String("method", info.FullMethod),
				zap.String("code", code.String()),
				zap.Duration("duration", elapsed),
				zap.String("request_id", requestID),
			}
			switch code {
			case codes.OK:
				log.Info("grpc request", fields...)
			case codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition, codes.Canceled:
				log.Warn("grpc request", append(fields, zap.Error(err))...)
			default:
				log.Error("grpc request", append(fields, zap.Error(err))...)
			}
		}()

		resp, err = handler(ctx, req)
		if err != nil {
			err = grpcutil.ToStatus(err)
		}
		return resp, err
	}
}
