// Package oracle provides the minimal card-oracle API client used during
// identity resolution.
//
// It exposes exact and fuzzy lookups by name plus autocomplete for partial
// inputs, spacing requests to respect the oracle's rate limit. Responses are
// strongly typed so the resolver can confirm candidates against them. Options
// allow tests to supply custom HTTP clients or stub behaviour without
// modifying production code.
package oracle
