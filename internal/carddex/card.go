package carddex

import (
	"strings"

	"decklens/internal/textutil"
)

// Color is a single mana color in WUBRG order.
type Color string

const (
	White Color = "W"
	Blue  Color = "U"
	Black Color = "B"
	Red   Color = "R"
	Green Color = "G"
)

// Zone identifies which part of a deck list a card belongs to.
type Zone string

const (
	ZoneMain Zone = "mainboard"
	ZoneSide Zone = "sideboard"
)

// Target returns the exact card count a legal deck carries in this zone.
func (z Zone) Target() int {
	if z == ZoneSide {
		return 15
	}
	return 60
}

// CanonicalCard is a card identity confirmed against the card oracle or the
// curated catalog. Name is the exact printed name.
type CanonicalCard struct {
	ID       string
	Name     string
	ManaCost string
	TypeLine string
	Colors   []Color
}

// NormalizedName returns the lookup key for this card.
func (c CanonicalCard) NormalizedName() string {
	return textutil.Normalize(c.Name)
}

// IsLand reports whether the card's type line marks it as a land.
func (c CanonicalCard) IsLand() bool {
	return typeLineIsLand(c.TypeLine)
}

// Line is one entry of a deck list: a card name with a copy count.
type Line struct {
	Name     string
	Quantity int
}

var basicLands = map[Color]string{
	White: "Plains",
	Blue:  "Island",
	Black: "Swamp",
	Red:   "Mountain",
	Green: "Forest",
}

// BasicLandFor returns the basic land that produces the given color.
// Unknown colors map to Wastes.
func BasicLandFor(color Color) string {
	if name, ok := basicLands[color]; ok {
		return name
	}
	return "Wastes"
}

func typeLineIsLand(typeLine string) bool {
	normalized := textutil.Normalize(typeLine)
	words := strings.FieldsFunc(normalized, func(r rune) bool {
		return r == ' ' || r == '-'
	})
	for _, word := range words {
		if word == "land" {
			return true
		}
	}
	return false
}

// IsBasicLand reports whether name is one of the five basic lands or Wastes.
func IsBasicLand(name string) bool {
	normalized := textutil.Normalize(name)
	for _, land := range basicLands {
		if textutil.Normalize(land) == normalized {
			return true
		}
	}
	return normalized == "wastes"
}
