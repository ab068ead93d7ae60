// Package mock provides a mock STT adapter for testing and local
// development without a model server or cloud credentials.
package mock

import (
	"context"

	"medical-audio-processor/internal/service/stt"
)

// DefaultSegments is the canned consultation used when no segments are
// configured.
var DefaultSegments = []stt.Segment{
	{Start: 0, End: 4.5, Text: "Patient complains of persistent cough for two weeks."},
	{Start: 4.5, End: 9.0, Text: "Lungs clear on auscultation, no fever today."},
	{Start: 9.0, End: 14.0, Text: "Likely post-viral cough, prescribe dextromethorphan ten milligrams at night."},
	{Start: 14.0, End: 18.0, Text: "Follow up in two weeks if symptoms persist."},
}

// Adapter implements stt.Adapter with canned responses.
type Adapter struct {
	Segments []stt.Segment
	Err      error

	// Calls records each transcription request for assertions.
	Calls []Call
}

// Call captures the arguments of one Transcribe invocation.
type Call struct {
	AudioPath string
	BeamSize  int
}

// New creates a mock adapter returning the default consultation.
func New() *Adapter {
	return &Adapter{Segments: DefaultSegments}
}

// Provider returns the provider name.
func (a *Adapter) Provider() string { return "mock" }

// Transcribe records the call and returns the configured segments.
func (a *Adapter) Transcribe(_ context.Context, audioPath string, opts stt.Options) ([]stt.Segment, error) {
	a.Calls = append(a.Calls, Call{AudioPath: audioPath, BeamSize: opts.BeamSize})
	if a.Err != nil {
		return nil, a.Err
	}
	return a.Segments, nil
}
