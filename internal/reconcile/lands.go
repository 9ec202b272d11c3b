package reconcile

import (
	"fmt"

	"decklens/internal/carddex"
	"decklens/internal/logging"
)

// correctLandTotal reconciles the mainboard against the client's displayed
// land counter. List clients stack basic lands in one tall group, so when
// the read comes up short the missing copies almost always belong to a
// single land entry. The whole deficit is therefore attributed to one slot:
// the basic land already present, else the most land-like entry, else a new
// basic land guessed from the deck's colors. An excess is only reported;
// trimming is the completion engine's job.
func (r *Reconciler) correctLandTotal(deck *Deck, declared int) []string {
	if declared <= 0 {
		return nil
	}

	var counted int
	basicIdx, landIdx := -1, -1
	for i, slot := range deck.Slots {
		if slot.Zone != carddex.ZoneMain || !slot.IsLand() {
			continue
		}
		counted += slot.Quantity
		if basicIdx < 0 && carddex.IsBasicLand(slot.DisplayName()) {
			basicIdx = i
		}
		if landIdx < 0 {
			landIdx = i
		}
	}

	switch {
	case counted == declared:
		return nil
	case counted > declared:
		return []string{fmt.Sprintf("read %d lands but the client reports %d; leaving the excess for trimming", counted, declared)}
	}

	deficit := declared - counted
	target := basicIdx
	if target < 0 {
		target = landIdx
	}
	if target >= 0 {
		slot := &deck.Slots[target]
		slot.Quantity += deficit
		r.logger.Debug("attributed land deficit to existing entry",
			logging.String("card", slot.DisplayName()),
			logging.Int("deficit", deficit))
		return []string{fmt.Sprintf("client reports %d lands, read %d; added %d to %q", declared, counted, deficit, slot.DisplayName())}
	}

	colors := carddex.DetectColors(deck.Names())
	land := carddex.BasicLandFor(colors[0])
	card := carddex.CanonicalCard{Name: land, TypeLine: "Basic Land — " + land, Colors: colors[:1]}
	deck.Slots = append(deck.Slots, DeckSlot{
		Name:       land,
		Card:       &card,
		Quantity:   deficit,
		Zone:       carddex.ZoneMain,
		Validated:  true,
		Confidence: 0.5,
	})
	r.logger.Debug("appended basic land for declared total",
		logging.String("card", land),
		logging.Int("deficit", deficit))
	return []string{fmt.Sprintf("client reports %d lands, read %d; appended %d %s", declared, counted, deficit, land)}
}
