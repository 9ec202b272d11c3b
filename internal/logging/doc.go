// Package logging wires log/slog with the handlers and attribute helpers the
// rest of the engine uses: a compact console handler for interactive runs, a
// JSON handler for machine consumption, and context-derived fields so every
// record carries the request ID, stage, and zone it belongs to.
package logging
