package mock

import (
	"context"
	"errors"
	"testing"

	"medical-audio-processor/internal/service/stt"
)

func TestAdapter_ReturnsDefaultSegments(t *testing.T) {
	a := New()
	segs, err := a.Transcribe(context.Background(), "visit.wav", stt.Options{BeamSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != len(DefaultSegments) {
		t.Errorf("expected %d segments, got %d", len(DefaultSegments), len(segs))
	}
	if len(a.Calls) != 1 || a.Calls[0].AudioPath != "visit.wav" || a.Calls[0].BeamSize != 5 {
		t.Errorf("unexpected recorded call: %+v", a.Calls)
	}
}

func TestAdapter_ConfiguredError(t *testing.T) {
	a := &Adapter{Err: errors.New("model offline")}
	if _, err := a.Transcribe(context.Background(), "visit.wav", stt.Options{}); err == nil {
		t.Error("expected configured error")
	}
}
