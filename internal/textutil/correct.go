package textutil

import "strings"

// wordCorrections rewrites whole words that OCR engines habitually misread.
// Sourced from observed recognition output across deck screenshots.
var wordCorrections = map[string]string{
	"lighming":     "lightning",
	"lighlning":    "lightning",
	"lightnmg":     "lightning",
	"snapcasler":   "snapcaster",
	"snapcasfer":   "snapcaster",
	"brainsform":   "brainstorm",
	"brainsforrn":  "brainstorm",
	"counlerspell": "counterspell",
	"counterspel":  "counterspell",
	"crealure":     "creature",
	"creafure":     "creature",
	"mslant":       "instant",
	"instanf":      "instant",
	"enchanlment":  "enchantment",
	"enchantmenf":  "enchantment",
	"arlifact":     "artifact",
	"artifacf":     "artifact",
	"planeswalher": "planeswalker",
	"planeswalkef": "planeswalker",
	"conmander":    "commander",
	"cornmander":   "commander",
	"leleri":       "teferi",
	"teleri":       "teferi",
	"oi":           "of",
	"ol":           "of",
	"fhe":          "the",
	"lhe":          "the",
	"fo":           "to",
	"rmg":          "ring",
	"rlng":         "ring",
}

// charConfusions maps digit/symbol look-alikes back to letters. Applied only
// to words that mix digits or symbols into otherwise alphabetic text, so
// genuine quantities like "4x" survive.
var charConfusions = map[rune]rune{
	'0': 'o',
	'1': 'l',
	'5': 's',
	'8': 'b',
	'6': 'g',
	'9': 'g',
	'|': 'l',
	'!': 'i',
	'@': 'a',
	'$': 's',
}

// CorrectOCR rewrites known OCR confusions in a recognized token. It runs
// before Normalize and the scorers; corrections change token length and
// composition, which would skew scores computed on the raw reading.
func CorrectOCR(value string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	if len(words) == 0 {
		return ""
	}
	out := make([]string, 0, len(words))
	for _, word := range words {
		word = desubstitute(word)
		if fixed, ok := wordCorrections[word]; ok {
			word = fixed
		}
		out = append(out, word)
	}
	return strings.Join(out, " ")
}

// desubstitute undoes character-level look-alike substitutions inside a word.
// Purely numeric words are left alone.
func desubstitute(word string) string {
	hasLetter := false
	hasConfusable := false
	for _, r := range word {
		if r >= 'a' && r <= 'z' {
			hasLetter = true
		}
		if _, ok := charConfusions[r]; ok {
			hasConfusable = true
		}
	}
	if !hasLetter || !hasConfusable {
		return word
	}
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		if repl, ok := charConfusions[r]; ok {
			b.WriteRune(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
