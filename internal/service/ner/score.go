package ner

import (
	"math"

	"medical-audio-processor/internal/models"
)

// Dedupe collapses a list of entities into its set of distinct members,
// preserving first-seen order.
func Dedupe(entities []models.Entity) []models.Entity {
	seen := make(map[models.Entity]bool, len(entities))
	out := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// Score computes set-overlap precision, recall and F1 between the
// reference and system entity sets. Inputs are deduplicated before
// comparison. Zero denominators yield zero scores; results are rounded
// to 3 decimal places.
func Score(reference, system []models.Entity) models.NERMetrics {
	refSet := make(map[models.Entity]bool, len(reference))
	for _, e := range reference {
		refSet[e] = true
	}
	sysSet := make(map[models.Entity]bool, len(system))
	for _, e := range system {
		sysSet[e] = true
	}

	var tp, fp int
	for e := range sysSet {
		if refSet[e] {
			tp++
		} else {
			fp++
		}
	}
	fn := len(refSet) - tp

	var precision, recall, f1 float64
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return models.NERMetrics{
		TP:        tp,
		FP:        fp,
		FN:        fn,
		Precision: round3(precision),
		Recall:    round3(recall),
		F1:        round3(f1),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
