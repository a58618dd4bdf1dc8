package kit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestChain_Order(t *testing.T) {
	var calls []string
	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				calls = append(calls, name)
				return next(ctx, req)
			}
		}
	}
	e := Chain(mw("a"), mw("b"), mw("c"))(func(context.Context, any) (any, error) {
		calls = append(calls, "endpoint")
		return "ok", nil
	})

	resp, err := e(context.Background(), nil)
	if err != nil || resp != "ok" {
		t.Fatalf("resp = %v, err = %v", resp, err)
	}
	if got := strings.Join(calls, ","); got != "a,b,c,endpoint" {
		t.Errorf("order = %s, want a,b,c,endpoint", got)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	e := RequestID()(func(ctx context.Context, _ any) (any, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	})

	e(context.Background(), nil)
	if seen == "" {
		t.Error("expected generated request ID")
	}

	e(WithRequestID(context.Background(), "fixed"), nil)
	if seen != "fixed" {
		t.Errorf("request ID = %q, want fixed", seen)
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ok := Logging(logger, "determine_article")(func(context.Context, any) (any, error) { return 1, nil })
	ctx := WithTransport(WithRequestID(context.Background(), "r1"), "cli")
	ok(ctx, nil)
	out := buf.String()
	for _, want := range []string{"level=DEBUG", "endpoint=determine_article", "transport=cli", "request_id=r1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}

	buf.Reset()
	failing := Logging(logger, "list_rules")(func(context.Context, any) (any, error) { return nil, errors.New("boom") })
	if _, err := failing(context.Background(), nil); err == nil {
		t.Fatal("expected error to pass through")
	}
	if out := buf.String(); !strings.Contains(out, "level=WARN") || !strings.Contains(out, "error=boom") {
		t.Errorf("failure log = %q", out)
	}
}

func TestGetTransport_Default(t *testing.T) {
	if got := GetTransport(context.Background()); got != "http" {
		t.Errorf("default transport = %q, want http", got)
	}
}
