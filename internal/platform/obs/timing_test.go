package obs

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimeLogsRequestIDAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	ctx := WithRequestID(context.Background(), "abc")

	func() (err error) {
		defer Time(ctx, logger, "op.ok")(&err)
		return nil
	}()

	func() (err error) {
		defer Time(ctx, logger, "op.fail")(&err)
		return errors.New("boom")
	}()

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}

	if entries[0].Level != zapcore.DebugLevel || entries[0].ContextMap()["op"] != "op.ok" {
		t.Fatalf("unexpected success entry: %+v", entries[0])
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].ContextMap()["error"] != "boom" {
		t.Fatalf("unexpected failure entry: %+v", entries[1])
	}
	if entries[1].ContextMap()["req_id"] != "abc" {
		t.Fatalf("req_id = %v, want abc", entries[1].ContextMap()["req_id"])
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger("loud", "json"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
