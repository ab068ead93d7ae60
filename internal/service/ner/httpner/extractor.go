// Package httpner provides an NER extractor backed by a clinical NER
// model server.
package httpner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"medical-audio-processor/internal/models"
)

// Extractor implements ner.Extractor against an HTTP model server that
// accepts {"text": ...} and returns {"entities": [{"text", "label"}]}.
type Extractor struct {
	url    string
	client *http.Client
}

// New creates an HTTP NER extractor.
func New(url string, timeout time.Duration) *Extractor {
	return &Extractor{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Provider returns the provider name.
func (e *Extractor) Provider() string { return "http" }

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
}

// Extract posts the text to the model server and normalizes the
// returned spans: lower-cased, trimmed, empty spans skipped.
func (e *Extractor) Extract(ctx context.Context, text string) ([]models.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	body, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ner http %d: %s", resp.StatusCode, string(b))
	}

	var er extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("decode ner response: %w", err)
	}

	entities := make([]models.Entity, 0, len(er.Entities))
	for _, ent := range er.Entities {
		t := strings.ToLower(strings.TrimSpace(ent.Text))
		if t == "" {
			continue
		}
		entities = append(entities, models.Entity{Text: t, Label: ent.Label})
	}
	return entities, nil
}
