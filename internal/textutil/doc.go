// Package textutil provides text processing utilities for card-name
// normalization and similarity scoring.
//
// The primary use cases are:
//   - Rewriting known OCR misreads before any other processing
//   - Normalizing recognized text for comparison against catalog names
//   - Computing edit-distance, phonetic, and trigram similarity scores
//
// All scorers map a pair of normalized strings to [0, 1]. The correction
// pass runs before normalization because it changes token length and
// composition, which the scorers are sensitive to.
package textutil
