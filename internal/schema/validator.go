// Package schema validates event payloads before they are published.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingKey is returned when an event has no partition key.
	ErrMissingKey = errors.New("event key is empty")
	// ErrMissingEventType is returned when the payload carries no eventType.
	ErrMissingEventType = errors.New("event payload missing eventType")
	// ErrMissingSessionID is returned when the payload carries no sessionId.
	ErrMissingSessionID = errors.New("event payload missing sessionId")
)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Validate checks that an event would produce a usable Kafka record:
// a non-empty key and a JSON payload carrying the envelope fields
// every consumer keys on.
func (v *Validator) Validate(key string, event any) error {
	if key == "" {
		return ErrMissingKey
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event not serializable: %w", err)
	}

	var envelope struct {
		EventType string `json:"eventType"`
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("event payload is not a JSON object: %w", err)
	}
	if envelope.EventType == "" {
		return ErrMissingEventType
	}
	if envelope.SessionID == "" {
		return ErrMissingSessionID
	}
	return nil
}
