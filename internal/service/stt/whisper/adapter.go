// Package whisper provides an STT adapter backed by a faster-whisper
// ASR web service.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"medical-audio-processor/internal/service/stt"
)

// Adapter implements stt.Adapter against a whisper ASR HTTP endpoint.
type Adapter struct {
	baseURL string
	model   string
	client  *http.Client
}

// New creates a whisper adapter. baseURL points at the ASR service root.
func New(baseURL, model string) *Adapter {
	return &Adapter{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 10 * time.Minute},
	}
}

// Provider returns the provider name.
func (a *Adapter) Provider() string { return "whisper" }

// transcribeResponse is the whisper ASR service response body.
type transcribeResponse struct {
	Task     string  `json:"task"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
	Text string `json:"text"`
}

// Transcribe uploads the audio file and returns the decoded segments.
func (a *Adapter) Transcribe(ctx context.Context, audioPath string, opts stt.Options) ([]stt.Segment, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	beam := opts.BeamSize
	if beam <= 0 {
		beam = stt.DefaultBeamSize
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", a.model); err != nil {
		return nil, err
	}
	if err := mw.WriteField("beam_size", strconv.Itoa(beam)); err != nil {
		return nil, err
	}
	fw, err := mw.CreateFormFile("audio_file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	url := a.baseURL + "/asr?output=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("whisper http %d: %s", resp.StatusCode, string(b))
	}

	var tr transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}

	segments := make([]stt.Segment, 0, len(tr.Segments))
	for _, s := range tr.Segments {
		segments = append(segments, stt.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	// Some deployments return only the flat text field.
	if len(segments) == 0 && tr.Text != "" {
		segments = append(segments, stt.Segment{Text: tr.Text})
	}
	return segments, nil
}
