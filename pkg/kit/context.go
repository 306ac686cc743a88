package kit

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const (
	TransportKey contextKey = "kit_transport" // "http", "mcp"
	RequestIDKey contextKey = "kit_request_id"
)

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return "http"
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

// NewRequestID returns a fresh, time-ordered request id.
func NewRequestID() string {
	return ulid.Make().String()
}

// RequestID is a middleware that assigns a request id when the transport
// did not provide one.
func RequestID(next Endpoint) Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if GetRequestID(ctx) == "" {
			ctx = WithRequestID(ctx, NewRequestID())
		}
		return next(ctx, request)
	}
}
