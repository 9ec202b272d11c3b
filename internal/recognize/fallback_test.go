package recognize_test

import (
	"context"
	"errors"
	"testing"

	"decklens/internal/carddex"
	"decklens/internal/recognize"
	"decklens/internal/services"
)

type stubEngine struct {
	result *recognize.Result
	err    error
	calls  int
}

func (s *stubEngine) Recognize(_ context.Context, _ recognize.Request) (*recognize.Result, error) {
	s.calls++
	return s.result, s.err
}

func TestFallbackUsesFirstSuccess(t *testing.T) {
	primary := &stubEngine{result: &recognize.Result{Tokens: []recognize.RawToken{{Text: "Mountain", Quantity: 4}}}}
	secondary := &stubEngine{result: &recognize.Result{}}

	chain := recognize.NewFallback(primary, secondary)
	result, err := chain.Recognize(context.Background(), recognize.Request{Zone: carddex.ZoneMain})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(result.Tokens) != 1 {
		t.Fatalf("tokens = %+v", result.Tokens)
	}
	if secondary.calls != 0 {
		t.Fatal("secondary engine should not run when the primary succeeds")
	}
}

func TestFallbackMovesToNextEngine(t *testing.T) {
	primary := &stubEngine{err: services.Wrap(services.ErrRecognition, "vision", "recognize", "no tokens", nil)}
	secondary := &stubEngine{result: &recognize.Result{Tokens: []recognize.RawToken{{Text: "Abrade", Quantity: 2}}}}

	chain := recognize.NewFallback(primary, secondary)
	result, err := chain.Recognize(context.Background(), recognize.Request{Zone: carddex.ZoneSide})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(result.Tokens) != 1 || result.Tokens[0].Text != "Abrade" {
		t.Fatalf("tokens = %+v", result.Tokens)
	}
}

func TestFallbackStopsOnCatastrophic(t *testing.T) {
	primary := &stubEngine{err: services.Wrap(services.ErrCatastrophic, "vision", "recognize", "empty image", nil)}
	secondary := &stubEngine{result: &recognize.Result{}}

	chain := recognize.NewFallback(primary, secondary)
	_, err := chain.Recognize(context.Background(), recognize.Request{Zone: carddex.ZoneMain})
	if !errors.Is(err, services.ErrCatastrophic) {
		t.Fatalf("expected catastrophic error, got %v", err)
	}
	if secondary.calls != 0 {
		t.Fatal("catastrophic failure must stop the chain")
	}
}
