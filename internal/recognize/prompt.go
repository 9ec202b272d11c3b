package recognize

import (
	"fmt"
	"strings"

	"decklens/internal/carddex"
)

// buildPrompt assembles the extraction prompt for one attempt. Retries
// escalate: from the third attempt the prompt hammers on land counts, and
// from the fourth it asks for a sweep of the image edges where truncated
// rows hide.
func buildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Extract every card from this Magic: The Gathering deck list screenshot.\n")
	switch req.Zone {
	case carddex.ZoneSide:
		b.WriteString("This image shows the SIDEBOARD zone. A full sideboard has exactly 15 cards.\n")
	default:
		b.WriteString("This image shows the MAINBOARD zone. A full mainboard has exactly 60 cards.\n")
	}

	switch req.FormatHint {
	case "mtgo":
		b.WriteString("The screenshot is from Magic Online. Card rows repeat one line per copy, and the header shows zone totals such as \"Lands: 24\". Report that land total if visible.\n")
	case "arena":
		b.WriteString("The screenshot is from MTG Arena. Quantities appear as a number on each card row.\n")
	case "paper":
		b.WriteString("The image is a photograph of a written or printed deck list.\n")
	}

	b.WriteString("\nRespond with JSON only, in this shape:\n")
	b.WriteString(`{"cards":[{"name":"Lightning Bolt","quantity":4,"confidence":0.95}],"land_total":24}` + "\n")
	b.WriteString("Omit land_total when no total is displayed. Use quantity 1 when no count is shown. Set confidence between 0 and 1 for how certain you are of each name.\n")

	if req.Attempt >= 3 {
		b.WriteString("\nPrevious reads came back short. Count the LAND rows with extra care: basic lands stack in tall groups and their quantities are the most commonly misread numbers in the image.\n")
	}
	if req.Attempt >= 4 {
		b.WriteString("Also scan the very top and bottom edges of the image. Rows cut off by the viewport still show partial card names; include every one you can read.\n")
	}
	if req.Attempt > 1 {
		fmt.Fprintf(&b, "\nThis is attempt %d. Completeness matters more than caution: include uncertain names rather than dropping them.\n", req.Attempt)
	}
	return b.String()
}
