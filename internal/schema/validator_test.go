package schema

import (
	"errors"
	"testing"

	"medical-audio-processor/internal/models"
)

func TestValidate_AcceptsWellFormedEvent(t *testing.T) {
	v := New()
	event := models.NoteCreated{
		EventType: "note.created",
		SessionID: "abc12345",
	}
	if err := v.Validate("abc12345", event); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}
}

func TestValidate_RejectsEmptyKey(t *testing.T) {
	v := New()
	err := v.Validate("", models.NoteCreated{EventType: "note.created", SessionID: "x"})
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestValidate_RejectsMissingEnvelopeFields(t *testing.T) {
	v := New()

	if err := v.Validate("k", models.NoteCreated{SessionID: "x"}); !errors.Is(err, ErrMissingEventType) {
		t.Errorf("expected ErrMissingEventType, got %v", err)
	}
	if err := v.Validate("k", models.NoteCreated{EventType: "note.created"}); !errors.Is(err, ErrMissingSessionID) {
		t.Errorf("expected ErrMissingSessionID, got %v", err)
	}
}

func TestValidate_RejectsNonObjectPayload(t *testing.T) {
	v := New()
	if err := v.Validate("k", "just a string"); err == nil {
		t.Fatal("expected error for non-object payload")
	}
}
