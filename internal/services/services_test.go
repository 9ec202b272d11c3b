package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"decklens/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithStage(ctx, "reconcile")
	ctx = services.WithZone(ctx, "mainboard")

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "reconcile" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if zone, ok := services.ZoneFromContext(ctx); !ok || zone != "mainboard" {
		t.Fatalf("unexpected zone: %v %v", zone, ok)
	}
}

func TestRequestIDGeneratedWhenEmpty(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "")
	rid, ok := services.RequestIDFromContext(ctx)
	if !ok || rid == "" {
		t.Fatal("expected generated request id")
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrRecognition, "recognize", "vision call", "empty response", nil)
	if !errors.Is(err, services.ErrRecognition) {
		t.Fatalf("expected ErrRecognition, got %v", err)
	}
	if !strings.Contains(err.Error(), "recognize: vision call: empty response") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", errors.New("boom"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"recognition", services.Wrap(services.ErrRecognition, "a", "b", "c", nil), true},
		{"timeout", services.ErrTimeout, true},
		{"transient", services.ErrTransient, true},
		{"configuration", services.ErrConfiguration, false},
		{"catastrophic", services.ErrCatastrophic, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCatastrophic(t *testing.T) {
	err := services.Wrap(services.ErrCatastrophic, "pipeline", "read image", "unreadable", nil)
	if !services.Catastrophic(err) {
		t.Fatal("expected catastrophic classification")
	}
	if services.Catastrophic(services.ErrTimeout) {
		t.Fatal("timeout must not classify as catastrophic")
	}
}
