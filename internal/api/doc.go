// Package api exposes the CLI-facing workflows as plain functions taking
// request structs. Commands stay thin: they parse flags, call into here,
// and render the result.
package api
