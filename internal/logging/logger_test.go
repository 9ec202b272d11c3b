package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"decklens/internal/services"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("pipeline started", String("image", "deck.png"), Int("attempt", 1))

	out := buf.String()
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "pipeline started") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "image=deck.png") || !strings.Contains(out, "attempt=1") {
		t.Fatalf("missing attrs: %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("cache miss", String("namespace", "card:exact"))
	if !strings.Contains(buf.String(), `"namespace":"card:exact"`) {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestComponentLoggerPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	NewComponentLogger(logger, "resolver").Info("ready")
	if !strings.Contains(buf.String(), "[resolver]") {
		t.Fatalf("component marker missing: %q", buf.String())
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := services.WithRequestID(context.Background(), "req-9")
	ctx = services.WithZone(ctx, "sideboard")
	WithContext(ctx, logger).Info("resolved")

	out := buf.String()
	if !strings.Contains(out, "correlation_id=req-9") || !strings.Contains(out, "zone=sideboard") {
		t.Fatalf("context fields missing: %q", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic or write")
}
