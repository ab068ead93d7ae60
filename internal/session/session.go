// Package session provides consultation session IDs and lifecycle management.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// NewID generates a short session identifier. Callers that already
// carry a correlation id pass it through instead.
func NewID() string {
	return uuid.NewString()[:8]
}

// State represents the lifecycle state of a consultation session.
type State int

const (
	// StateOpen - Audio received, pipeline is running.
	StateOpen State = iota
	// StateSummarized - SOAP note emitted, plan awaiting clinician approval.
	StateSummarized
	// StateApproved - Plan approved and actions executed.
	StateApproved
	// StateDropped - Session abandoned due to a pipeline error.
	StateDropped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateSummarized:
		return "SUMMARIZED"
	case StateApproved:
		return "APPROVED"
	case StateDropped:
		return "DROPPED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true if the state is terminal (APPROVED or DROPPED).
func (s State) IsTerminal() bool {
	return s == StateApproved || s == StateDropped
}

// Errors for invalid state transitions.
var (
	ErrSessionClosed      = errors.New("session is closed")
	ErrNoteAlreadyEmitted = errors.New("note already emitted for this session")
	ErrAlreadyApproved    = errors.New("plan already approved for this session")
)

// Lifecycle manages the state machine for a single consultation session.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	OPEN → SUMMARIZED → APPROVED
//	  │         │
//	  └─────────┴── Drop() ──→ DROPPED (terminal)
//
// Approval straight from OPEN is allowed: clinicians may approve a plan
// pasted from an earlier run, so the approving process never saw the
// note emission.
type Lifecycle struct {
	mu        sync.RWMutex
	sessionId string
	state     State
}

// NewLifecycle creates a new session lifecycle in OPEN state.
func NewLifecycle(sessionId string) *Lifecycle {
	return &Lifecycle{
		sessionId: sessionId,
		state:     StateOpen,
	}
}

// SessionId returns the session ID.
func (l *Lifecycle) SessionId() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sessionId
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// IsClosed returns true if the session is in a terminal state.
func (l *Lifecycle) IsClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.IsTerminal()
}

// IsDropped returns true if the session was abandoned due to error.
func (l *Lifecycle) IsDropped() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateDropped
}

// EmitNote validates and transitions to SUMMARIZED state.
// Returns nil if allowed (and transitions state), error if not allowed.
func (l *Lifecycle) EmitNote() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateOpen:
		l.state = StateSummarized
		return nil
	case StateSummarized:
		return ErrNoteAlreadyEmitted
	case StateApproved, StateDropped:
		return ErrSessionClosed
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// Approve validates and transitions to APPROVED state.
// Returns nil if allowed (and transitions state), error if not allowed.
func (l *Lifecycle) Approve() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateOpen, StateSummarized:
		l.state = StateApproved
		return nil
	case StateApproved:
		return ErrAlreadyApproved
	case StateDropped:
		return ErrSessionClosed
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// Drop transitions the session to DROPPED state.
// Use when a pipeline error abandons the session before a note is served.
// Returns true if the session was dropped, false if already terminal.
func (l *Lifecycle) Drop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.IsTerminal() {
		return false
	}
	l.state = StateDropped
	return true
}
