package recognize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"decklens/internal/carddex"
)

type modelPayload struct {
	Cards []struct {
		Name       string  `json:"name"`
		Quantity   int     `json:"quantity"`
		Confidence float64 `json:"confidence"`
	} `json:"cards"`
	LandTotal *int `json:"land_total"`
}

// parseOutput turns model or OCR text into tokens. JSON is tried first;
// anything else is read as plain deck-list lines.
func parseOutput(text string, zone carddex.Zone) *Result {
	if result, ok := parseJSON(text, zone); ok {
		return result
	}
	return parseLines(text, zone)
}

func parseJSON(text string, zone carddex.Zone) (*Result, bool) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var payload modelPayload
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return nil, false
	}
	if len(payload.Cards) == 0 {
		return nil, false
	}

	result := &Result{}
	for _, card := range payload.Cards {
		name := strings.TrimSpace(card.Name)
		if name == "" {
			continue
		}
		confidence := card.Confidence
		if confidence < 0 || confidence > 1 {
			confidence = 0
		}
		result.Tokens = append(result.Tokens, RawToken{
			Text:       name,
			Quantity:   card.Quantity,
			Zone:       zone,
			Confidence: confidence,
		})
	}
	if payload.LandTotal != nil && *payload.LandTotal > 0 {
		result.LandTotal = *payload.LandTotal
		result.HasLandTotal = true
	}
	return result, len(result.Tokens) > 0
}

var (
	leadingQtyPattern  = regexp.MustCompile(`^(\d+)[xX]?\s+(.+)$`)
	trailingQtyPattern = regexp.MustCompile(`^(.+?)\s+[xX]?(\d+)$`)
	totalLinePattern   = regexp.MustCompile(`(?i)^([a-z]+)\s*:\s*(\d+)$`)
	zoneHeaderPattern  = regexp.MustCompile(`(?i)^(mainboard|main deck|deck|sideboard)$`)
)

// parseLines reads classic deck-list text: one card per line with the count
// leading ("4 Shock", "4x Shock") or trailing ("Shock x4"). Client zone
// headers and total counters are recognized and kept out of the token
// stream.
func parseLines(text string, zone carddex.Zone) *Result {
	result := &Result{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || zoneHeaderPattern.MatchString(line) {
			continue
		}

		if m := totalLinePattern.FindStringSubmatch(line); m != nil {
			if strings.EqualFold(m[1], "lands") || strings.EqualFold(m[1], "land") {
				if total, err := strconv.Atoi(m[2]); err == nil && total > 0 {
					result.LandTotal = total
					result.HasLandTotal = true
				}
			}
			continue
		}

		token := RawToken{Zone: zone, Quantity: 1}
		switch {
		case leadingQtyPattern.MatchString(line):
			m := leadingQtyPattern.FindStringSubmatch(line)
			token.Quantity, _ = strconv.Atoi(m[1])
			token.Text = strings.TrimSpace(m[2])
		case trailingQtyPattern.MatchString(line):
			m := trailingQtyPattern.FindStringSubmatch(line)
			token.Text = strings.TrimSpace(m[1])
			token.Quantity, _ = strconv.Atoi(m[2])
		default:
			token.Text = line
		}
		if token.Text == "" {
			continue
		}
		result.Tokens = append(result.Tokens, token)
	}
	return result
}
