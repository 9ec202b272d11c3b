package carddex

import "strings"

// colorIndicators maps each color to card-name fragments that strongly
// suggest it. The match is a substring test on the lowercased name.
var colorIndicators = map[Color][]string{
	White: {"plains", "white", "angel", "knight", "soldier", "ajani", "elspeth"},
	Blue:  {"island", "blue", "wizard", "merfolk", "drake", "jace", "teferi"},
	Black: {"swamp", "black", "zombie", "vampire", "demon", "liliana", "vraska"},
	Red:   {"mountain", "red", "goblin", "dragon", "phoenix", "chandra", "sarkhan"},
	Green: {"forest", "green", "elf", "elves", "beast", "hydra", "nissa", "garruk"},
}

var colorOrder = []Color{White, Blue, Black, Red, Green}

// DetectColors infers a deck's color identity from its card names. Decks
// with no recognizable indicator default to mono-red.
func DetectColors(names []string) []Color {
	detected := make(map[Color]bool)
	for _, name := range names {
		lowered := strings.ToLower(name)
		for color, indicators := range colorIndicators {
			if detected[color] {
				continue
			}
			for _, indicator := range indicators {
				if strings.Contains(lowered, indicator) {
					detected[color] = true
					break
				}
			}
		}
	}

	var colors []Color
	for _, color := range colorOrder {
		if detected[color] {
			colors = append(colors, color)
		}
	}
	if len(colors) == 0 {
		colors = []Color{Red}
	}
	return colors
}
