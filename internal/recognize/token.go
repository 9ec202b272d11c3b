package recognize

import (
	"context"

	"decklens/internal/carddex"
)

// RawToken is one card line as read from the image, before identity
// resolution. Quantity is the claimed copy count; zero means the reader saw
// a name without a count.
type RawToken struct {
	Text     string       `json:"text"`
	Quantity int          `json:"quantity"`
	Zone     carddex.Zone `json:"zone"`
	// Confidence is the reader's own certainty in (0, 1]. Zero means the
	// source reported none and reads as full confidence downstream.
	Confidence float64 `json:"confidence,omitempty"`
	SourceID   string  `json:"source_id,omitempty"`
}

// Result is the outcome of one recognition attempt over one zone.
type Result struct {
	Tokens []RawToken `json:"tokens"`
	// LandTotal carries the client's own "Lands: N" counter when the
	// screenshot displays one. Zero with HasLandTotal false means absent.
	LandTotal    int  `json:"land_total"`
	HasLandTotal bool `json:"has_land_total"`
}

// Stamp records which reader produced the tokens.
func (r *Result) Stamp(sourceID string) {
	for i := range r.Tokens {
		if r.Tokens[i].SourceID == "" {
			r.Tokens[i].SourceID = sourceID
		}
	}
}

// CardCount sums the claimed quantities, counting bare names as one copy.
func (r *Result) CardCount() int {
	var total int
	for _, token := range r.Tokens {
		quantity := token.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		total += quantity
	}
	return total
}

// Request describes one recognition attempt.
type Request struct {
	Image      []byte
	MIME       string // image/png when empty
	Zone       carddex.Zone
	Attempt    int    // 1-based; drives prompt escalation
	FormatHint string // "mtgo", "arena", "paper", or empty
}

// Recognizer extracts raw tokens from a deck-list image.
type Recognizer interface {
	Recognize(ctx context.Context, req Request) (*Result, error)
}
