package events

import (
	"context"
	"testing"
	"time"

	"medical-audio-processor/internal/models"
)

func TestNew_NilConfig_LogOnlyMode(t *testing.T) {
	p := New(nil)
	if p == nil {
		t.Fatal("expected non-nil publisher")
	}
	if p.enabled {
		t.Error("expected publisher disabled with nil config")
	}
}

func TestNew_Disabled_LogOnlyMode(t *testing.T) {
	p := New(&Config{
		Enabled:       false,
		TopicNote:     "consult.note.created",
		TopicApproval: "consult.plan.approved",
		Principal:     "test-svc",
	})
	if p.enabled {
		t.Error("expected publisher disabled")
	}
	if p.topicNote != "consult.note.created" {
		t.Errorf("expected note topic retained, got %s", p.topicNote)
	}
}

func TestNew_EnabledWithoutBrokers_LogOnlyMode(t *testing.T) {
	p := New(&Config{Enabled: true})
	if p.enabled {
		t.Error("expected publisher disabled without brokers")
	}
}

func TestPublish_LogOnlyMode_NoError(t *testing.T) {
	p := New(&Config{
		Enabled:       false,
		TopicNote:     "consult.note.created",
		TopicApproval: "consult.plan.approved",
	})

	ev := models.NoteCreated{
		EventType: "consult.note.created",
		SessionID: "abc12345",
		Note:      models.EmptyNote(),
		Timestamp: time.Now().UnixMilli(),
	}
	if err := p.PublishNoteCreated(context.Background(), ev.SessionID, ev); err != nil {
		t.Errorf("unexpected error in log-only mode: %v", err)
	}

	ap := models.PlanApproved{
		EventType:      "consult.plan.approved",
		SessionID:      "abc12345",
		MedicineStatus: models.StatusSuccess,
		Timestamp:      time.Now().UnixMilli(),
	}
	if err := p.PublishPlanApproved(context.Background(), ap.SessionID, ap); err != nil {
		t.Errorf("unexpected error in log-only mode: %v", err)
	}
}

func TestPublish_UnmarshalableEvent_ReturnsError(t *testing.T) {
	p := New(nil)
	if err := p.PublishNoteCreated(context.Background(), "key", make(chan int)); err == nil {
		t.Error("expected marshal error for unencodable event")
	}
}

func TestPublish_MissingEnvelopeFields_ReturnsError(t *testing.T) {
	p := New(nil)
	ev := models.NoteCreated{SessionID: "abc12345"}
	if err := p.PublishNoteCreated(context.Background(), ev.SessionID, ev); err == nil {
		t.Error("expected validation error for event without eventType")
	}
	if err := p.PublishNoteCreated(context.Background(), "", models.NoteCreated{EventType: "consult.note.created", SessionID: "x"}); err == nil {
		t.Error("expected validation error for empty key")
	}
}

func TestClose_LogOnlyMode_NoError(t *testing.T) {
	p := New(nil)
	if err := p.Close(); err != nil {
		t.Errorf("unexpected error closing disabled publisher: %v", err)
	}
}
