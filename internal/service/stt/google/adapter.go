// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"
	"os"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"

	"medical-audio-processor/internal/service/stt"
)

// Adapter implements stt.Adapter using Google Cloud Speech-to-Text
// batch recognition.
type Adapter struct {
	client       *speech.Client
	languageCode string
	sampleRate   int32
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, languageCode string, sampleRate int) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		client:       c,
		languageCode: languageCode,
		sampleRate:   int32(sampleRate),
	}, nil
}

// Provider returns the provider name.
func (a *Adapter) Provider() string { return "google" }

// Transcribe runs synchronous recognition over the WAV file. The beam
// size option is not supported by the API and is ignored.
func (a *Adapter) Transcribe(ctx context.Context, audioPath string, _ stt.Options) ([]stt.Segment, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: a.sampleRate,
			LanguageCode:    a.languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	})
	if err != nil {
		return nil, err
	}

	var segments []stt.Segment
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		segments = append(segments, stt.Segment{Text: r.Alternatives[0].Transcript})
	}
	return segments, nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}
