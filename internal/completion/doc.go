// Package completion forces a reconciled deck to legal zone totals. The
// engine pads shortfalls with basic lands or sideboard staples matched to
// the deck's colors, trims surpluses starting from the weakest evidence,
// and never returns an error: when balancing cannot land on the targets a
// fixed fallback deck takes over.
package completion
