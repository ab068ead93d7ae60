// Package mock provides a deterministic NER extractor for testing and
// local development without a model server.
package mock

import (
	"context"
	"strings"

	"medical-audio-processor/internal/models"
)

// Vocabulary maps known surface forms to labels. Matching is done by
// case-insensitive substring scan, which is enough for canned test
// transcripts.
var Vocabulary = map[string]string{
	"cough":            "DISEASE",
	"fever":            "DISEASE",
	"headache":         "DISEASE",
	"nausea":           "DISEASE",
	"dextromethorphan": "CHEMICAL",
	"ibuprofen":        "CHEMICAL",
	"amoxicillin":      "CHEMICAL",
}

// Extractor implements ner.Extractor over the fixed vocabulary.
type Extractor struct {
	Err error
}

// New creates a mock extractor.
func New() *Extractor {
	return &Extractor{}
}

// Provider returns the provider name.
func (e *Extractor) Provider() string { return "mock" }

// Extract returns one entity per vocabulary occurrence in the text.
func (e *Extractor) Extract(_ context.Context, text string) ([]models.Entity, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	lower := strings.ToLower(text)
	var entities []models.Entity
	for term, label := range Vocabulary {
		for i := 0; ; {
			idx := strings.Index(lower[i:], term)
			if idx < 0 {
				break
			}
			entities = append(entities, models.Entity{Text: term, Label: label})
			i += idx + len(term)
		}
	}
	return entities, nil
}
