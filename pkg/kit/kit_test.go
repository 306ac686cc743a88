package kit

import (
	"context"
	"reflect"
	"testing"
)

func tag(name string, log *[]string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			*log = append(*log, name)
			return next(ctx, req)
		}
	}
}

func TestChainOrder(t *testing.T) {
	var log []string
	ep := Chain(tag("a", &log), tag("b", &log), tag("c", &log))(func(context.Context, any) (any, error) {
		log = append(log, "endpoint")
		return nil, nil
	})
	ep(context.Background(), nil)

	want := []string{"a", "b", "c", "endpoint"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("call order = %v, want %v", log, want)
	}
}

func TestRequestID(t *testing.T) {
	var got string
	ep := RequestID(func(ctx context.Context, _ any) (any, error) {
		got = GetRequestID(ctx)
		return nil, nil
	})

	ep(context.Background(), nil)
	if len(got) != 26 {
		t.Errorf("generated id %q, want a 26-char ULID", got)
	}

	ep(WithRequestID(context.Background(), "given"), nil)
	if got != "given" {
		t.Errorf("id = %q, want existing id kept", got)
	}
}

func TestGetTransportDefault(t *testing.T) {
	if got := GetTransport(context.Background()); got != "http" {
		t.Errorf("GetTransport = %q, want http", got)
	}
	if got := GetTransport(WithTransport(context.Background(), "mcp")); got != "mcp" {
		t.Errorf("GetTransport = %q, want mcp", got)
	}
}
