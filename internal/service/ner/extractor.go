// Package ner defines the clinical named-entity-recognition interface
// and the set-overlap scorer used to evaluate generated notes.
package ner

import (
	"context"

	"medical-audio-processor/internal/models"
)

// Extractor defines the interface for NER providers (http, mock).
// Implementations return entities lower-cased and trimmed, skipping
// empty spans; duplicates are allowed.
type Extractor interface {
	// Extract runs inference over the text and returns the ordered
	// (surface text, label) pairs.
	Extract(ctx context.Context, text string) ([]models.Entity, error)

	// Provider returns the provider name for logging and metrics.
	Provider() string
}
