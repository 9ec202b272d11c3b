package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"decklens/internal/carddex"
	"decklens/internal/logging"
	"decklens/internal/recognize"
	"decklens/internal/resolver"
)

// Identifier resolves one raw token to a canonical card.
type Identifier interface {
	Identify(ctx context.Context, raw string) (resolver.Resolution, bool, error)
}

// Reconciler folds recognition results into a deck.
type Reconciler struct {
	identifier Identifier
	logger     *slog.Logger
}

// New creates a Reconciler.
func New(identifier Identifier, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{
		identifier: identifier,
		logger:     logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Reconcile resolves and merges every token. Returned warnings describe
// unresolved tokens and structured-total disagreements; they never abort
// the run.
func (r *Reconciler) Reconcile(ctx context.Context, results map[carddex.Zone]*recognize.Result) (Deck, []string, error) {
	var deck Deck
	var warnings []string
	index := make(map[string]int) // zone+key -> slot position

	for _, zone := range []carddex.Zone{carddex.ZoneMain, carddex.ZoneSide} {
		result := results[zone]
		if result == nil {
			continue
		}
		for _, token := range result.Tokens {
			slot, warning, err := r.resolveToken(ctx, token)
			if err != nil {
				return Deck{}, nil, err
			}
			if warning != "" {
				warnings = append(warnings, warning)
			}
			if slot == nil {
				continue
			}

			mergeKey := string(slot.Zone) + "|" + slot.Key()
			if pos, seen := index[mergeKey]; seen {
				existing := &deck.Slots[pos]
				// Max, not sum: the same rows read twice must not double.
				if slot.Quantity > existing.Quantity {
					existing.Quantity = slot.Quantity
				}
				if slot.Confidence > existing.Confidence {
					existing.Confidence = slot.Confidence
				}
				if slot.Validated && !existing.Validated {
					existing.Validated = true
					existing.Card = slot.Card
					existing.Name = slot.Name
				}
				for _, source := range slot.Sources {
					existing.AddSource(source)
				}
				continue
			}
			index[mergeKey] = len(deck.Slots)
			deck.Slots = append(deck.Slots, *slot)
		}
	}

	if main := results[carddex.ZoneMain]; main != nil && main.HasLandTotal {
		warnings = append(warnings, r.correctLandTotal(&deck, main.LandTotal)...)
	}
	return deck, warnings, nil
}

func (r *Reconciler) resolveToken(ctx context.Context, token recognize.RawToken) (*DeckSlot, string, error) {
	if strings.TrimSpace(token.Text) == "" {
		return nil, "", nil
	}
	quantity := token.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	sourceConfidence := token.Confidence
	if sourceConfidence <= 0 || sourceConfidence > 1 {
		sourceConfidence = 1
	}

	res, ok, err := r.identifier.Identify(ctx, token.Text)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		r.logger.Debug("token kept unresolved",
			logging.String(logging.FieldZone, string(token.Zone)),
			logging.String("text", token.Text))
		slot := &DeckSlot{
			Name:     token.Text,
			Quantity: quantity,
			Zone:     token.Zone,
		}
		slot.AddSource(token.SourceID)
		return slot, fmt.Sprintf("unresolved card name %q in %s", token.Text, token.Zone), nil
	}

	card := res.Card
	slot := &DeckSlot{
		Name:      card.Name,
		Card:      &card,
		Quantity:  quantity,
		Zone:      token.Zone,
		Validated: res.Validated,
		// The match score discounted by how sure the reader was of the
		// raw text.
		Confidence: res.Score * sourceConfidence,
	}
	slot.AddSource(token.SourceID)
	return slot, "", nil
}
