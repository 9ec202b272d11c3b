package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"decklens/internal/carddex"
)

// ErrNotFound indicates the oracle has no card matching the query.
var ErrNotFound = errors.New("card not found")

// Card models the oracle's card payload.
type Card struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ManaCost string   `json:"mana_cost"`
	TypeLine string   `json:"type_line"`
	Colors   []string `json:"colors"`
}

// Canonical converts the payload into the domain card record.
func (c Card) Canonical() carddex.CanonicalCard {
	colors := make([]carddex.Color, 0, len(c.Colors))
	for _, color := range c.Colors {
		colors = append(colors, carddex.Color(color))
	}
	return carddex.CanonicalCard{
		ID:       c.ID,
		Name:     c.Name,
		ManaCost: c.ManaCost,
		TypeLine: c.TypeLine,
		Colors:   colors,
	}
}

type autocompleteResponse struct {
	Data []string `json:"data"`
}

// Lookuper defines the oracle operations used by the resolver.
type Lookuper interface {
	NamedExact(ctx context.Context, name string) (*Card, error)
	NamedFuzzy(ctx context.Context, name string) (*Card, error)
}

// Client provides access to a Scryfall-compatible card oracle.
type Client struct {
	baseURL     string
	minInterval time.Duration
	httpClient  *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

var _ Lookuper = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit overrides the minimum spacing between requests.
func WithRateLimit(interval time.Duration) Option {
	return func(c *Client) {
		if interval >= 0 {
			c.minInterval = interval
		}
	}
}

// New creates an oracle client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("oracle base url required")
	}
	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		minInterval: 100 * time.Millisecond,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NamedExact looks a card up by its exact printed name.
func (c *Client) NamedExact(ctx context.Context, name string) (*Card, error) {
	return c.named(ctx, "exact", name)
}

// NamedFuzzy asks the oracle for its own fuzzy match on name.
func (c *Client) NamedFuzzy(ctx context.Context, name string) (*Card, error) {
	return c.named(ctx, "fuzzy", name)
}

func (c *Client) named(ctx context.Context, mode, name string) (*Card, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/cards/named")
	if err != nil {
		return nil, fmt.Errorf("parse oracle url: %w", err)
	}
	params := url.Values{}
	params.Set(mode, name)
	endpoint.RawQuery = params.Encode()

	resp, latency, err := c.get(ctx, endpoint.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oracle named lookup returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload Card
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode oracle card: %w", err)
	}
	return &payload, nil
}

// Autocomplete returns card names beginning with the supplied partial input.
func (c *Client) Autocomplete(ctx context.Context, partial string) ([]string, error) {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return nil, errors.New("partial must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/cards/autocomplete")
	if err != nil {
		return nil, fmt.Errorf("parse oracle url: %w", err)
	}
	params := url.Values{}
	params.Set("q", partial)
	endpoint.RawQuery = params.Encode()

	resp, latency, err := c.get(ctx, endpoint.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oracle autocomplete returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload autocompleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode oracle autocomplete: %w", err)
	}
	return payload.Data, nil
}

// collectionChunkSize is the identifier cap the oracle imposes per batch
// request.
const collectionChunkSize = 75

type collectionIdentifier struct {
	Name string `json:"name"`
}

type collectionRequest struct {
	Identifiers []collectionIdentifier `json:"identifiers"`
}

type collectionResponse struct {
	Data []Card `json:"data"`
}

// Collection resolves many names in batches, returning every card the
// oracle recognized. Names the oracle does not know are skipped, not
// errors.
func (c *Client) Collection(ctx context.Context, names []string) ([]Card, error) {
	var cards []Card
	for start := 0; start < len(names); start += collectionChunkSize {
		end := start + collectionChunkSize
		if end > len(names) {
			end = len(names)
		}
		chunk, err := c.collection(ctx, names[start:end])
		if err != nil {
			return nil, err
		}
		cards = append(cards, chunk...)
	}
	return cards, nil
}

func (c *Client) collection(ctx context.Context, names []string) ([]Card, error) {
	identifiers := make([]collectionIdentifier, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			identifiers = append(identifiers, collectionIdentifier{Name: name})
		}
	}
	if len(identifiers) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(collectionRequest{Identifiers: identifiers})
	if err != nil {
		return nil, fmt.Errorf("encode collection request: %w", err)
	}

	resp, latency, err := c.post(ctx, c.baseURL+"/cards/collection", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oracle collection lookup returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode oracle collection: %w", err)
	}
	return payload.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, time.Duration, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, latency, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	return resp, latency, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (*http.Response, time.Duration, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, latency, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	return resp, latency, nil
}

// throttle enforces the minimum spacing between oracle calls.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	wait := c.minInterval - time.Since(c.lastRequest)
	if wait <= 0 {
		c.lastRequest = time.Now()
		c.mu.Unlock()
		return nil
	}
	c.lastRequest = c.lastRequest.Add(c.minInterval)
	c.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
