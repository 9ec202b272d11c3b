// Package reconcile merges recognized tokens into one deck slot per card
// identity and zone.
//
// Duplicate observations of the same card merge by maximum quantity, never
// by sum, so re-reads of the same rows cannot inflate counts and merge order
// does not matter. Tokens that fail identity resolution stay in the deck as
// unvalidated slots rather than disappearing. When the screenshot carries
// the client's own land counter, the whole land deficit is attributed to a
// single land entry, matching how list clients miscount stacked basics.
package reconcile
