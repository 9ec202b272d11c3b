// Package carddex holds the card domain model: canonical card records, the
// curated popular-card catalog, color inference tables, and the static deck
// used when recognition fails outright.
package carddex
