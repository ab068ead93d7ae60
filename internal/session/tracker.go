package session

import "sync"

// Tracker is an in-memory registry of active session lifecycles.
// Thread-safe for concurrent access.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]*Lifecycle
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		sessions: make(map[string]*Lifecycle),
	}
}

// Open registers a new session in OPEN state, replacing any previous
// lifecycle under the same id.
func (t *Tracker) Open(sessionId string) *Lifecycle {
	t.mu.Lock()
	defer t.mu.Unlock()
	lc := NewLifecycle(sessionId)
	t.sessions[sessionId] = lc
	return lc
}

// Resolve returns the lifecycle for a session, registering one when the
// session is unknown. Approvals may reference sessions started by
// another process, so an unknown id is not an error.
func (t *Tracker) Resolve(sessionId string) *Lifecycle {
	t.mu.Lock()
	defer t.mu.Unlock()
	if lc, ok := t.sessions[sessionId]; ok {
		return lc
	}
	lc := NewLifecycle(sessionId)
	t.sessions[sessionId] = lc
	return lc
}

// Forget removes a session from the registry.
func (t *Tracker) Forget(sessionId string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, sessionId)
}

// Len returns the number of tracked sessions.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
