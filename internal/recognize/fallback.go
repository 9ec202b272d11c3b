package recognize

import (
	"context"
	"errors"

	"decklens/internal/services"
)

// Fallback tries each engine in order and returns the first usable result.
// Catastrophic failures stop the chain; anything else moves on to the next
// engine.
type Fallback struct {
	engines []Recognizer
}

var _ Recognizer = (*Fallback)(nil)

// NewFallback chains the given engines, primary first.
func NewFallback(engines ...Recognizer) *Fallback {
	return &Fallback{engines: engines}
}

func (f *Fallback) Recognize(ctx context.Context, req Request) (*Result, error) {
	var lastErr error
	for _, engine := range f.engines {
		result, err := engine.Recognize(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if services.Catastrophic(err) || ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no recognition engines configured")
	}
	return nil, lastErr
}
