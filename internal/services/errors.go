package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRecognition marks a recognition attempt that returned nothing or
	// failed outright. The orchestrator tries the next configured attempt.
	ErrRecognition = errors.New("recognition failure")
	// ErrCacheUnavailable marks a shared cache tier that could not be
	// reached. Callers degrade to local-tier behaviour and never surface it.
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrCompletionShortfall marks input the deficit/surplus logic could not
	// resolve in one pass.
	ErrCompletionShortfall = errors.New("completion shortfall")
	// ErrCatastrophic marks unreadable input or total recognition failure,
	// the only condition that reaches the fixed fallback deck.
	ErrCatastrophic = errors.New("catastrophic input failure")
	// ErrTimeout marks an external call exceeding its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrTransient marks failures worth retrying with backoff.
	ErrTransient = errors.New("transient failure")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether the orchestrator should schedule another attempt
// for this failure rather than proceeding with partial data.
func Retryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrRecognition)
}

// Catastrophic reports whether the failure should route to the fixed
// fallback deck instead of the normal completion path.
func Catastrophic(err error) bool {
	return errors.Is(err, ErrCatastrophic)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
