package completion_test

import (
	"testing"

	"decklens/internal/carddex"
	"decklens/internal/completion"
	"decklens/internal/reconcile"
)

func slot(name string, quantity int, zone carddex.Zone, confidence float64) reconcile.DeckSlot {
	return reconcile.DeckSlot{
		Name:       name,
		Quantity:   quantity,
		Zone:       zone,
		Validated:  true,
		Confidence: confidence,
	}
}

func checkTargets(t *testing.T, deck *reconcile.Deck) {
	t.Helper()
	if got := deck.ZoneCount(carddex.ZoneMain); got != 60 {
		t.Fatalf("mainboard total = %d, want 60", got)
	}
	if got := deck.ZoneCount(carddex.ZoneSide); got != 15 {
		t.Fatalf("sideboard total = %d, want 15", got)
	}
}

func TestCompleteEmptyDeck(t *testing.T) {
	engine := completion.New(nil)
	result := engine.Complete(reconcile.Deck{})

	checkTargets(t, &result.Deck)
	if !result.Forced {
		t.Fatal("an all-filler deck must be marked forced")
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected padding warnings")
	}
	// With no signal the deck defaults to mono-red.
	var mountains int
	for _, s := range result.Deck.Zone(carddex.ZoneMain) {
		if s.DisplayName() == "Mountain" {
			mountains += s.Quantity
		}
	}
	if mountains != 60 {
		t.Fatalf("expected 60 Mountains, got %d", mountains)
	}
}

func TestCompleteExactDeckUntouched(t *testing.T) {
	deck := reconcile.Deck{Slots: []reconcile.DeckSlot{
		slot("Lightning Bolt", 4, carddex.ZoneMain, 1),
		slot("Monastery Swiftspear", 4, carddex.ZoneMain, 1),
		slot("Mountain", 52, carddex.ZoneMain, 1),
		slot("Abrade", 15, carddex.ZoneSide, 1),
	}}

	engine := completion.New(nil)
	result := engine.Complete(deck)

	checkTargets(t, &result.Deck)
	if result.Forced {
		t.Fatal("exact deck must pass through unforced")
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Deck.Slots) != 4 {
		t.Fatalf("slots changed: %+v", result.Deck.Slots)
	}
}

func TestCompleteStripsNonPositiveQuantities(t *testing.T) {
	deck := reconcile.Deck{Slots: []reconcile.DeckSlot{
		slot("Mountain", 60, carddex.ZoneMain, 1),
		slot("Ghost Entry", 0, carddex.ZoneMain, 1),
		slot("Negative Entry", -3, carddex.ZoneSide, 1),
		slot("Abrade", 15, carddex.ZoneSide, 1),
	}}

	result := completion.New(nil).Complete(deck)

	checkTargets(t, &result.Deck)
	for _, s := range result.Deck.Slots {
		if s.DisplayName() == "Ghost Entry" || s.DisplayName() == "Negative Entry" {
			t.Fatalf("non-positive slot survived: %+v", s)
		}
	}
}

func TestCompletePadsWithDeckColors(t *testing.T) {
	deck := reconcile.Deck{Slots: []reconcile.DeckSlot{
		slot("Snapcaster Mage", 4, carddex.ZoneMain, 1),
		slot("Island", 20, carddex.ZoneMain, 1),
	}}

	result := completion.New(nil).Complete(deck)

	checkTargets(t, &result.Deck)
	var islands int
	for _, s := range result.Deck.Zone(carddex.ZoneMain) {
		if s.DisplayName() == "Island" {
			islands += s.Quantity
		}
	}
	// Blue deck: the 36-card deficit lands entirely on Islands, merged
	// into the existing slot.
	if islands != 56 {
		t.Fatalf("Island count = %d, want 56", islands)
	}
}

func TestCompleteSideboardUsesStaples(t *testing.T) {
	deck := reconcile.Deck{Slots: []reconcile.DeckSlot{
		slot("Mountain", 60, carddex.ZoneMain, 1),
	}}

	result := completion.New(nil).Complete(deck)

	checkTargets(t, &result.Deck)
	side := result.Deck.Zone(carddex.ZoneSide)
	byName := make(map[string]int)
	for _, s := range side {
		byName[s.DisplayName()] = s.Quantity
		if !s.Filler {
			t.Fatalf("padded sideboard slot not marked filler: %+v", s)
		}
	}
	if byName["Abrade"] != 3 {
		t.Fatalf("expected 3 Abrade from red staples, got %d", byName["Abrade"])
	}
	if byName["Grafdigger's Cage"] != 2 {
		t.Fatalf("expected 2 Grafdigger's Cage from colorless staples, got %d", byName["Grafdigger's Cage"])
	}
}

func TestCompleteTrimsLowestConfidenceFirst(t *testing.T) {
	deck := reconcile.Deck{Slots: []reconcile.DeckSlot{
		slot("Lightning Bolt", 4, carddex.ZoneMain, 0.95),
		slot("Shivan Dragon", 8, carddex.ZoneMain, 0.3),
		slot("Mountain", 52, carddex.ZoneMain, 0.9),
		slot("Abrade", 15, carddex.ZoneSide, 1),
	}}

	result := completion.New(nil).Complete(deck)

	checkTargets(t, &result.Deck)
	if !result.Forced {
		t.Fatal("trimming must mark the result forced")
	}
	for _, s := range result.Deck.Zone(carddex.ZoneMain) {
		switch s.DisplayName() {
		case "Shivan Dragon":
			// 4-card surplus split out of the weakest read.
			if s.Quantity != 4 {
				t.Fatalf("Shivan Dragon = %d, want 4 after trim", s.Quantity)
			}
		case "Lightning Bolt":
			if s.Quantity != 4 {
				t.Fatalf("high-confidence slot touched: %+v", s)
			}
		case "Mountain":
			if s.Quantity != 52 {
				t.Fatalf("high-confidence slot touched: %+v", s)
			}
		}
	}
}

func TestCompleteTrimsFillerBeforeReads(t *testing.T) {
	filler := slot("Mountain", 10, carddex.ZoneMain, 0.9)
	filler.Filler = true
	deck := reconcile.Deck{Slots: []reconcile.DeckSlot{
		slot("Shivan Dragon", 5, carddex.ZoneMain, 0.1),
		slot("Lightning Bolt", 50, carddex.ZoneMain, 0.9),
		filler,
		slot("Abrade", 15, carddex.ZoneSide, 1),
	}}

	result := completion.New(nil).Complete(deck)

	checkTargets(t, &result.Deck)
	for _, s := range result.Deck.Zone(carddex.ZoneMain) {
		if s.DisplayName() == "Mountain" && s.Quantity != 5 {
			t.Fatalf("filler slot should absorb the trim, got %d", s.Quantity)
		}
		if s.DisplayName() == "Shivan Dragon" && s.Quantity != 5 {
			t.Fatalf("real read trimmed before filler: %+v", s)
		}
	}
}

func TestFallbackShape(t *testing.T) {
	result := completion.Fallback()

	checkTargets(t, &result.Deck)
	if !result.Forced {
		t.Fatal("fallback must be forced")
	}
	if len(result.Warnings) == 0 {
		t.Fatal("fallback must carry a warning")
	}
	for _, s := range result.Deck.Slots {
		if !s.Filler {
			t.Fatalf("fallback slot not marked filler: %+v", s)
		}
	}
}
