package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer SetLevel("warn")

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("test message")

	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Error("FromContext should return default logger, got nil")
	}
}

func TestSessionID(t *testing.T) {
	ctx := context.Background()
	if got := SessionIDFromContext(ctx); got != "" {
		t.Errorf("SessionIDFromContext() = %q, want empty", got)
	}

	ctx = WithSessionID(ctx, "01HZX3")
	if got := SessionIDFromContext(ctx); got != "01HZX3" {
		t.Errorf("SessionIDFromContext() = %q, want 01HZX3", got)
	}
}

func TestCommandSeq(t *testing.T) {
	ctx := context.Background()
	if got := CommandSeqFromContext(ctx); got != 0 {
		t.Errorf("CommandSeqFromContext() = %d, want 0", got)
	}

	ctx = WithCommandSeq(ctx, 7)
	if got := CommandSeqFromContext(ctx); got != 7 {
		t.Errorf("CommandSeqFromContext() = %d, want 7", got)
	}
}

func TestL_EnrichesLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer SetLevel("warn")

	ctx := WithLogger(context.Background(), l)
	ctx = WithSessionID(ctx, "sess-1")
	ctx = WithCommandSeq(ctx, 3)

	L(ctx).Info("dispatched")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if logEntry["session_id"] != "sess-1" {
		t.Errorf("session_id = %v", logEntry["session_id"])
	}
	if logEntry["command_seq"] != float64(3) {
		t.Errorf("command_seq = %v", logEntry["command_seq"])
	}
}
