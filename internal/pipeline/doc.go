// Package pipeline orchestrates one deck-list request end to end:
// recognition with a bounded retry ladder per zone, identity resolution and
// zone reconciliation, then completion to exact legal totals. A request
// always produces a 60+15 deck; when recognition yields nothing usable the
// fixed fallback deck is returned with the failure recorded in Errors.
package pipeline
