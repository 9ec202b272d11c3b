package completion

import (
	"fmt"
	"log/slog"
	"sort"

	"decklens/internal/carddex"
	"decklens/internal/logging"
	"decklens/internal/reconcile"
	"decklens/internal/services"
)

// Result is the balanced deck plus the record of what it took to get there.
// Forced is true whenever the engine padded, trimmed, or fell back.
type Result struct {
	Deck     reconcile.Deck `json:"deck"`
	Warnings []string       `json:"warnings,omitempty"`
	Forced   bool           `json:"forced"`
}

// Engine balances decks to exact zone targets.
type Engine struct {
	logger *slog.Logger
}

// New creates an Engine.
func New(logger *slog.Logger) *Engine {
	return &Engine{logger: logging.NewComponentLogger(logger, "completion")}
}

// Complete balances the deck to exactly 60 mainboard and 15 sideboard
// cards. Non-positive quantities are stripped first. The engine never
// fails: if two balancing passes cannot hit the targets, the fixed
// fallback list replaces the deck entirely.
func (e *Engine) Complete(deck reconcile.Deck) Result {
	result := Result{Deck: strip(deck)}
	for pass := 0; pass < 2; pass++ {
		if e.balance(&result) {
			return result
		}
	}
	if zonesExact(&result.Deck) {
		return result
	}
	e.logger.Warn("balancing passes missed the targets, using fallback deck",
		logging.Error(services.ErrCompletionShortfall))
	fallback := Fallback()
	fallback.Warnings = append(result.Warnings, fallback.Warnings...)
	return fallback
}

// balance runs one pad/trim pass and reports whether the deck was already
// at target before it ran.
func (e *Engine) balance(result *Result) bool {
	balanced := true
	for _, zone := range []carddex.Zone{carddex.ZoneMain, carddex.ZoneSide} {
		total := result.Deck.ZoneCount(zone)
		target := zone.Target()
		switch {
		case total < target:
			e.pad(result, zone, target-total)
			balanced = false
		case total > target:
			e.trim(result, zone, total-target)
			balanced = false
		}
	}
	return balanced
}

func (e *Engine) pad(result *Result, zone carddex.Zone, deficit int) {
	colors := carddex.DetectColors(result.Deck.Names())
	var lines []carddex.Line
	if zone == carddex.ZoneMain {
		lines = basicLandSpread(colors, deficit)
	} else {
		lines = stapleSpread(colors, deficit)
	}
	for _, line := range lines {
		addFiller(&result.Deck, zone, line)
	}
	result.Forced = true
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("%s short by %d, padded with filler", zone, deficit))
	e.logger.Info("padded zone to target",
		logging.String(logging.FieldZone, string(zone)),
		logging.Int("deficit", deficit))
}

// trim removes surplus copies, cheapest evidence first: filler slots from
// the newest backwards, then the lowest-confidence reads. Quantities are
// split rather than dropping whole entries.
func (e *Engine) trim(result *Result, zone carddex.Zone, surplus int) {
	removed := surplus
	for _, idx := range trimOrder(&result.Deck, zone) {
		if surplus == 0 {
			break
		}
		slot := &result.Deck.Slots[idx]
		cut := slot.Quantity
		if cut > surplus {
			cut = surplus
		}
		slot.Quantity -= cut
		surplus -= cut
	}
	removeEmpty(&result.Deck)
	result.Forced = true
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("%s over by %d, trimmed", zone, removed))
	e.logger.Info("trimmed zone to target",
		logging.String(logging.FieldZone, string(zone)),
		logging.Int("surplus", removed))
}

func trimOrder(deck *reconcile.Deck, zone carddex.Zone) []int {
	var order []int
	for i, slot := range deck.Slots {
		if slot.Zone == zone {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := deck.Slots[order[a]], deck.Slots[order[b]]
		if sa.Filler != sb.Filler {
			return sa.Filler
		}
		if sa.Filler {
			return order[a] > order[b]
		}
		if sa.Confidence != sb.Confidence {
			return sa.Confidence < sb.Confidence
		}
		return order[a] > order[b]
	})
	return order
}

func strip(deck reconcile.Deck) reconcile.Deck {
	stripped := reconcile.Deck{Slots: make([]reconcile.DeckSlot, 0, len(deck.Slots))}
	for _, slot := range deck.Slots {
		if slot.Quantity > 0 {
			stripped.Slots = append(stripped.Slots, slot)
		}
	}
	return stripped
}

func removeEmpty(deck *reconcile.Deck) {
	kept := deck.Slots[:0]
	for _, slot := range deck.Slots {
		if slot.Quantity > 0 {
			kept = append(kept, slot)
		}
	}
	deck.Slots = kept
}

func zonesExact(deck *reconcile.Deck) bool {
	return deck.ZoneCount(carddex.ZoneMain) == carddex.ZoneMain.Target() &&
		deck.ZoneCount(carddex.ZoneSide) == carddex.ZoneSide.Target()
}
