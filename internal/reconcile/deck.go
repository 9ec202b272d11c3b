package reconcile

import (
	"decklens/internal/carddex"
	"decklens/internal/textutil"
)

// DeckSlot is one merged deck entry: a card identity with its copy count in
// one zone. Unresolved tokens keep their raw text as Name with a nil Card.
type DeckSlot struct {
	Name       string                 `json:"name"`
	Card       *carddex.CanonicalCard `json:"card,omitempty"`
	Quantity   int                    `json:"quantity"`
	Zone       carddex.Zone           `json:"zone"`
	Validated  bool                   `json:"validated"`
	Confidence float64                `json:"confidence"`
	Filler     bool                   `json:"filler"`
	// Sources lists the readers that observed this entry.
	Sources []string `json:"sources,omitempty"`
}

// AddSource records a reader for this slot, once.
func (s *DeckSlot) AddSource(sourceID string) {
	if sourceID == "" {
		return
	}
	for _, existing := range s.Sources {
		if existing == sourceID {
			return
		}
	}
	s.Sources = append(s.Sources, sourceID)
}

// Key returns the merge identity for this slot.
func (s DeckSlot) Key() string {
	if s.Card != nil {
		return s.Card.NormalizedName()
	}
	return textutil.Normalize(s.Name)
}

// IsLand reports whether the slot holds a land card. Unresolved slots fall
// back to a basic-land name check.
func (s DeckSlot) IsLand() bool {
	if s.Card != nil {
		return s.Card.IsLand() || carddex.IsBasicLand(s.Card.Name)
	}
	return carddex.IsBasicLand(s.Name)
}

// Deck is the reconciled deck: ordered slots, one per (identity, zone).
type Deck struct {
	Slots []DeckSlot `json:"slots"`
}

// Zone returns the slots belonging to the given zone, in deck order.
func (d *Deck) Zone(zone carddex.Zone) []DeckSlot {
	var slots []DeckSlot
	for _, slot := range d.Slots {
		if slot.Zone == zone {
			slots = append(slots, slot)
		}
	}
	return slots
}

// ZoneCount sums the copies in one zone.
func (d *Deck) ZoneCount(zone carddex.Zone) int {
	var total int
	for _, slot := range d.Slots {
		if slot.Zone == zone {
			total += slot.Quantity
		}
	}
	return total
}

// Names returns every slot's display name, resolved names first-classed.
func (d *Deck) Names() []string {
	names := make([]string, 0, len(d.Slots))
	for _, slot := range d.Slots {
		names = append(names, slot.DisplayName())
	}
	return names
}

// DisplayName returns the canonical name when resolved, else the raw text.
func (s DeckSlot) DisplayName() string {
	if s.Card != nil {
		return s.Card.Name
	}
	return s.Name
}
