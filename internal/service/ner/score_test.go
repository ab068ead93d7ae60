package ner

import (
	"testing"

	"medical-audio-processor/internal/models"
)

func ents(pairs ...[2]string) []models.Entity {
	out := make([]models.Entity, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, models.Entity{Text: p[0], Label: p[1]})
	}
	return out
}

func TestScore_DisjointSets_AllZero(t *testing.T) {
	ref := ents([2]string{"ibuprofen", "CHEMICAL"}, [2]string{"headache", "DISEASE"})
	sys := ents([2]string{"aspirin", "CHEMICAL"}, [2]string{"fever", "DISEASE"})

	m := Score(ref, sys)

	if m.TP != 0 || m.FP != 2 || m.FN != 2 {
		t.Errorf("unexpected counts: %+v", m)
	}
	if m.Precision != 0 || m.Recall != 0 || m.F1 != 0 {
		t.Errorf("expected all-zero scores for disjoint sets, got %+v", m)
	}
}

func TestScore_IdenticalSets_AllOne(t *testing.T) {
	ref := ents([2]string{"ibuprofen", "CHEMICAL"}, [2]string{"headache", "DISEASE"})
	sys := ents([2]string{"headache", "DISEASE"}, [2]string{"ibuprofen", "CHEMICAL"})

	m := Score(ref, sys)

	if m.TP != 2 || m.FP != 0 || m.FN != 0 {
		t.Errorf("unexpected counts: %+v", m)
	}
	if m.Precision != 1.0 || m.Recall != 1.0 || m.F1 != 1.0 {
		t.Errorf("expected all-one scores for identical sets, got %+v", m)
	}
}

func TestScore_BothEmpty_AllZero(t *testing.T) {
	m := Score(nil, nil)
	if m.Precision != 0 || m.Recall != 0 || m.F1 != 0 {
		t.Errorf("expected zero scores for empty sets, got %+v", m)
	}
}

func TestScore_PartialOverlap(t *testing.T) {
	ref := ents(
		[2]string{"ibuprofen", "CHEMICAL"},
		[2]string{"headache", "DISEASE"},
		[2]string{"nausea", "DISEASE"},
	)
	sys := ents(
		[2]string{"ibuprofen", "CHEMICAL"},
		[2]string{"fever", "DISEASE"},
	)

	m := Score(ref, sys)

	if m.TP != 1 || m.FP != 1 || m.FN != 2 {
		t.Errorf("unexpected counts: %+v", m)
	}
	if m.Precision != 0.5 {
		t.Errorf("expected precision 0.5, got %v", m.Precision)
	}
	if m.Recall != 0.333 {
		t.Errorf("expected recall 0.333, got %v", m.Recall)
	}
	if m.F1 != 0.4 {
		t.Errorf("expected F1 0.4, got %v", m.F1)
	}
}

func TestScore_DuplicatesCollapse(t *testing.T) {
	ref := ents([2]string{"ibuprofen", "CHEMICAL"})
	sys := ents(
		[2]string{"ibuprofen", "CHEMICAL"},
		[2]string{"ibuprofen", "CHEMICAL"},
	)

	m := Score(ref, sys)

	if m.TP != 1 || m.FP != 0 {
		t.Errorf("expected duplicates to collapse, got %+v", m)
	}
	if m.Precision != 1.0 {
		t.Errorf("expected precision 1.0, got %v", m.Precision)
	}
}

func TestScore_SameTextDifferentLabel_NotAMatch(t *testing.T) {
	ref := ents([2]string{"ibuprofen", "CHEMICAL"})
	sys := ents([2]string{"ibuprofen", "DISEASE"})

	m := Score(ref, sys)

	if m.TP != 0 || m.FP != 1 || m.FN != 1 {
		t.Errorf("expected label mismatch to count as miss, got %+v", m)
	}
}

func TestDedupe_PreservesOrder(t *testing.T) {
	in := ents(
		[2]string{"b", "X"},
		[2]string{"a", "X"},
		[2]string{"b", "X"},
	)
	out := Dedupe(in)
	if len(out) != 2 || out[0].Text != "b" || out[1].Text != "a" {
		t.Errorf("unexpected dedupe result: %v", out)
	}
}
