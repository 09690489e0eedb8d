package middleware

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/groupledger/internal/metrics"
)

type empty struct{}

func okHandler(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
	return connect.NewResponse(&empty{}), nil
}

func failingHandler(code connect.Code) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(code, errors.New("boom"))
	}
}

func TestRequestID(t *testing.T) {
	t.Run("generates and echoes an ID", func(t *testing.T) {
		var seen string
		next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			seen = GetRequestID(ctx)
			return okHandler(ctx, req)
		}

		resp, err := RequestID()(next)(context.Background(), connect.NewRequest(&empty{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen == "" {
			t.Fatal("expected request ID in context")
		}
		if got := resp.Header().Get(RequestIDHeader); got != seen {
			t.Errorf("expected response header %q, got %q", seen, got)
		}
	})

	t.Run("reuses caller ID", func(t *testing.T) {
		req := connect.NewRequest(&empty{})
		req.Header().Set(RequestIDHeader, "abc-123")

		var seen string
		next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			seen = GetRequestID(ctx)
			return okHandler(ctx, req)
		}
		if _, err := RequestID()(next)(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen != "abc-123" {
			t.Errorf("expected caller ID, got %q", seen)
		}
	})

	t.Run("tags errors", func(t *testing.T) {
		_, err := RequestID()(failingHandler(connect.CodeNotFound))(context.Background(), connect.NewRequest(&empty{}))
		var connectErr *connect.Error
		if !errors.As(err, &connectErr) {
			t.Fatalf("expected connect error, got %v", err)
		}
		if connectErr.Meta().Get(RequestIDHeader) == "" {
			t.Error("expected request ID in error metadata")
		}
	})
}

func TestGetRequestID_Empty(t *testing.T) {
	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("expected empty ID, got %q", id)
	}
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New(nil)
	interceptor := MetricsInterceptor(m)

	ctx := context.Background()
	interceptor(okHandler)(ctx, connect.NewRequest(&empty{}))
	interceptor(okHandler)(ctx, connect.NewRequest(&empty{}))
	interceptor(failingHandler(connect.CodeFailedPrecondition))(ctx, connect.NewRequest(&empty{}))

	// Requests built outside a handler carry an empty procedure.
	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "ok")); got != 2 {
		t.Errorf("expected 2 ok requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "failed_precondition")); got != 1 {
		t.Errorf("expected 1 failed request, got %v", got)
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	_, err := LoggingInterceptor()(failingHandler(connect.CodeInvalidArgument))(context.Background(), connect.NewRequest(&empty{}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected error to pass through unchanged, got %v", err)
	}
}
