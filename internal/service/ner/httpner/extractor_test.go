package httpner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExtract_NormalizesEntities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["text"] == "" {
			t.Error("expected text in request")
		}
		w.Write([]byte(`{
			"entities": [
				{"text": "  Ibuprofen ", "label": "CHEMICAL"},
				{"text": "Headache", "label": "DISEASE"},
				{"text": "   ", "label": "DISEASE"},
				{"text": "Ibuprofen", "label": "CHEMICAL"}
			]
		}`))
	}))
	defer srv.Close()

	e := New(srv.URL, 5*time.Second)
	got, err := e.Extract(context.Background(), "patient took Ibuprofen for headache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Empty span skipped, duplicates preserved, text lower-cased and trimmed.
	if len(got) != 3 {
		t.Fatalf("expected 3 entities, got %d: %v", len(got), got)
	}
	if got[0].Text != "ibuprofen" || got[0].Label != "CHEMICAL" {
		t.Errorf("unexpected first entity: %+v", got[0])
	}
	if got[1].Text != "headache" {
		t.Errorf("unexpected second entity: %+v", got[1])
	}
}

func TestExtract_EmptyText_NoCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	e := New(srv.URL, time.Second)
	got, err := e.Extract(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil entities for empty text, got %v", got)
	}
	if called {
		t.Error("expected no HTTP call for empty text")
	}
}

func TestExtract_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := New(srv.URL, time.Second)
	if _, err := e.Extract(context.Background(), "some text"); err == nil {
		t.Error("expected error on HTTP 503")
	}
}
