// Package resolver turns noisy recognized card names into canonical card
// identities.
//
// Resolution runs in tiers: the lookup cache, exact catalog match, fuzzy
// match against the curated catalog, then the card oracle. Fuzzy scoring
// combines weighted edit-distance, Jaro-Winkler, phonetic, and trigram
// similarity; a high-confidence catalog match skips the oracle round trip
// entirely. Oracle confirmations are written back to the cache and catalog
// so later tokens in the same run resolve locally.
package resolver
