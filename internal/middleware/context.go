package middleware

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

const RequestIDHeader = "x-request-id"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the id set by the interceptor, falling back to incoming metadata.
func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(requestIDKey{}).(string); ok {
		return val
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if val := md.Get(RequestIDHeader); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

func requestIDOrNew(ctx context.Context) string {
	if id := GetRequestID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
