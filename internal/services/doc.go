// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, stage names, and zone labels
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the recovery path the orchestrator should take (retry, degrade,
//     or fall back to the fixed deck).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability, retries) stays uniform across the engine.
package services
