package carddex

import (
	"sort"
	"sync"

	"decklens/internal/textutil"
)

// Catalog is an in-memory card index keyed by normalized name. It seeds the
// fast resolution tier and accumulates oracle-confirmed cards over a run.
type Catalog struct {
	mu    sync.RWMutex
	cards map[string]CanonicalCard
	hits  map[string]int64
	names []string
	dirty bool
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		cards: make(map[string]CanonicalCard),
		hits:  make(map[string]int64),
	}
}

// NewPopularCatalog returns a catalog seeded with the curated list of the
// most played cards across formats.
func NewPopularCatalog() *Catalog {
	catalog := NewCatalog()
	for _, name := range popularNames {
		catalog.Add(CanonicalCard{Name: name})
	}
	for color, land := range basicLands {
		catalog.Add(CanonicalCard{
			Name:     land,
			TypeLine: "Basic Land — " + land,
			Colors:   []Color{color},
		})
	}
	return catalog
}

// Add inserts or replaces a card. Cards with richer data replace bare
// name-only seeds, never the other way around.
func (c *Catalog) Add(card CanonicalCard) {
	key := card.NormalizedName()
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.cards[key]; ok {
		if card.TypeLine == "" && existing.TypeLine != "" {
			return
		}
	} else {
		c.dirty = true
	}
	c.cards[key] = card
}

// Lookup returns the card stored under the normalized form of name.
// Successful lookups count toward the card's popularity.
func (c *Catalog) Lookup(name string) (CanonicalCard, bool) {
	key := textutil.Normalize(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	card, ok := c.cards[key]
	if ok {
		c.hits[key]++
	}
	return card, ok
}

// Popularity returns how many times the card has been looked up.
func (c *Catalog) Popularity(name string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits[textutil.Normalize(name)]
}

// Names returns every canonical card name in the catalog, sorted. The slice
// is rebuilt only when the catalog has changed since the last call.
func (c *Catalog) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirty || c.names == nil {
		c.names = make([]string, 0, len(c.cards))
		for _, card := range c.cards {
			c.names = append(c.names, card.Name)
		}
		sort.Strings(c.names)
		c.dirty = false
	}
	return c.names
}

// Len returns the number of distinct cards in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cards)
}
