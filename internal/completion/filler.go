package completion

import (
	"decklens/internal/carddex"
	"decklens/internal/reconcile"
	"decklens/internal/textutil"
)

// basicLandSpread splits a mainboard deficit across the deck's colors,
// earlier colors taking the remainder.
func basicLandSpread(colors []carddex.Color, deficit int) []carddex.Line {
	share := deficit / len(colors)
	remainder := deficit % len(colors)
	lines := make([]carddex.Line, 0, len(colors))
	for i, color := range colors {
		quantity := share
		if i < remainder {
			quantity++
		}
		if quantity == 0 {
			continue
		}
		lines = append(lines, carddex.Line{Name: carddex.BasicLandFor(color), Quantity: quantity})
	}
	return lines
}

// stapleSpread draws a sideboard deficit from the per-color staple lists,
// topping up with a basic land when the staples run out.
func stapleSpread(colors []carddex.Color, deficit int) []carddex.Line {
	var lines []carddex.Line
	remaining := deficit
	for _, staple := range carddex.SideboardStaples(colors) {
		if remaining == 0 {
			break
		}
		quantity := staple.Quantity
		if quantity > remaining {
			quantity = remaining
		}
		lines = append(lines, carddex.Line{Name: staple.Name, Quantity: quantity})
		remaining -= quantity
	}
	if remaining > 0 {
		lines = append(lines, carddex.Line{Name: carddex.BasicLandFor(colors[0]), Quantity: remaining})
	}
	return lines
}

// addFiller merges the line into an existing slot of the same identity or
// appends a new filler slot.
func addFiller(deck *reconcile.Deck, zone carddex.Zone, line carddex.Line) {
	key := textutil.Normalize(line.Name)
	for i := range deck.Slots {
		slot := &deck.Slots[i]
		if slot.Zone == zone && slot.Key() == key {
			slot.Quantity += line.Quantity
			return
		}
	}
	slot := reconcile.DeckSlot{
		Name:     line.Name,
		Quantity: line.Quantity,
		Zone:     zone,
		Filler:   true,
	}
	if carddex.IsBasicLand(line.Name) {
		card := basicLandCard(line.Name)
		slot.Card = &card
		slot.Validated = true
	}
	deck.Slots = append(deck.Slots, slot)
}

func basicLandCard(name string) carddex.CanonicalCard {
	return carddex.CanonicalCard{Name: name, TypeLine: "Basic Land — " + name}
}

// Fallback returns the fixed mono-red deck used when recognition yielded
// nothing the balancer can work with.
func Fallback() Result {
	var deck reconcile.Deck
	main, side := carddex.FallbackDeck()
	for _, line := range main {
		deck.Slots = append(deck.Slots, fallbackSlot(line, carddex.ZoneMain))
	}
	for _, line := range side {
		deck.Slots = append(deck.Slots, fallbackSlot(line, carddex.ZoneSide))
	}
	return Result{
		Deck:     deck,
		Forced:   true,
		Warnings: []string{"recognition produced no usable cards; returning the fixed fallback deck"},
	}
}

func fallbackSlot(line carddex.Line, zone carddex.Zone) reconcile.DeckSlot {
	return reconcile.DeckSlot{
		Name:     line.Name,
		Quantity: line.Quantity,
		Zone:     zone,
		Filler:   true,
	}
}
