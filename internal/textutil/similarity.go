package textutil

import "strings"

// LevenshteinScore computes edit-distance similarity between two strings:
// 1 - distance/max(len). Identical strings score 1, disjoint strings
// approach 0. Operates on runes so multi-byte input is counted correctly.
func LevenshteinScore(a, b string) float64 {
	if a == b {
		return 1
	}
	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// JaroWinklerScore computes Jaro similarity with the Winkler common-prefix
// bonus (up to 4 characters, scaling factor 0.1). Transposition-heavy OCR
// mistakes score well here where plain edit distance punishes them.
func JaroWinklerScore(a, b string) float64 {
	jaro := jaroScore([]rune(a), []rune(b))
	if jaro == 0 {
		return 0
	}
	prefix := 0
	for i := 0; i < len(a) && i < len(b) && i < 4; i++ {
		if a[i] != b[i] {
			break
		}
		prefix++
	}
	return jaro + float64(prefix)*0.1*(1-jaro)
}

func jaroScore(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	window := len(a)
	if len(b) > window {
		window = len(b)
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	matchedA := make([]bool, len(a))
	matchedB := make([]bool, len(b))
	matches := 0
	for i := range a {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > len(b) {
			hi = len(b)
		}
		for j := lo; j < hi; j++ {
			if matchedB[j] || a[i] != b[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	j := 0
	for i := range a {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if a[i] != b[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	return (m/float64(len(a)) + m/float64(len(b)) + (m-float64(transpositions)/2)/m) / 3
}

// PhoneticScore compares consonant-skeleton encodings of both strings.
// Equal codes score 1.0; otherwise the codes are compared with
// LevenshteinScore, so near-miss encodings still earn partial credit.
func PhoneticScore(a, b string) float64 {
	ca := PhoneticCode(a)
	cb := PhoneticCode(b)
	if ca == "" || cb == "" {
		return 0
	}
	if ca == cb {
		return 1
	}
	return LevenshteinScore(ca, cb)
}

// soundexClasses groups consonants that sound alike, soundex style.
var soundexClasses = map[rune]byte{
	'b': '1', 'f': '1', 'p': '1', 'v': '1',
	'c': '2', 'g': '2', 'j': '2', 'k': '2', 'q': '2', 's': '2', 'x': '2', 'z': '2',
	'd': '3', 't': '3',
	'l': '4',
	'm': '5', 'n': '5',
	'r': '6',
}

// PhoneticCode produces a soundex-style fingerprint: the first letter of each
// word followed by digit classes for subsequent consonants, with runs of the
// same class collapsed and vowels dropped. Unlike classic soundex the code is
// not truncated to four characters; card names are long enough that the tail
// carries signal.
func PhoneticCode(value string) string {
	var b strings.Builder
	for _, word := range strings.Fields(strings.ToLower(value)) {
		var last byte
		first := true
		for _, r := range word {
			if r < 'a' || r > 'z' {
				continue
			}
			if first {
				b.WriteRune(r)
				first = false
				last = soundexClasses[r]
				continue
			}
			class, ok := soundexClasses[r]
			if !ok {
				// Vowels and h/w/y reset the run so repeated classes
				// separated by a vowel are kept, per soundex rules.
				last = 0
				continue
			}
			if class == last {
				continue
			}
			b.WriteByte(class)
			last = class
		}
	}
	return b.String()
}

// TrigramScore computes Jaccard similarity over padded 3-rune shingle sets.
func TrigramScore(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	intersection := 0
	for gram := range ta {
		if _, ok := tb[gram]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func trigrams(value string) map[string]struct{} {
	padded := []rune("  " + value + "  ")
	if len(padded) < 3 {
		return nil
	}
	set := make(map[string]struct{}, len(padded))
	for i := 0; i+3 <= len(padded); i++ {
		set[string(padded[i:i+3])] = struct{}{}
	}
	return set
}
