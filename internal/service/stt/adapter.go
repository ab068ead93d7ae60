// Package stt defines the interface for Speech-to-Text adapters.
package stt

import (
	"context"
	"strings"
)

// Segment is one portion of transcribed audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Options tune a transcription request.
type Options struct {
	// BeamSize controls the decoder's search breadth. Providers that
	// have no beam parameter ignore it.
	BeamSize int
}

// DefaultBeamSize is used when Options.BeamSize is zero.
const DefaultBeamSize = 5

// Adapter defines the interface for batch STT providers
// (whisper, Google, mock).
type Adapter interface {
	// Transcribe runs speech recognition over the audio file and
	// returns the ordered segments.
	Transcribe(ctx context.Context, audioPath string, opts Options) ([]Segment, error)

	// Provider returns the provider name for logging and metrics.
	Provider() string
}

// JoinSegments concatenates non-empty segment texts with single spaces
// and collapses internal whitespace.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
