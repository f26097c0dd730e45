package session

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"matchcore/internal/engine"
)

// Session holds one connected client's authentication state and an
// operator-facing correlation ID (the transport's log lines carry the
// numeric ID, not this one).
// Order submission is permitted only once State == Authenticated.
type Session struct {
	ID          engine.SessionID
	CorrelationID string // operator-facing UUID, distinct from ID

	mu        sync.Mutex
	state     State
	principal string
}

// IDCounter is the process-global, monotonic session-id counter, owned
// by the acceptor rather than kept as a package-level global.
type IDCounter struct {
	next atomic.Uint64
}

func (c *IDCounter) Next() engine.SessionID {
	return engine.SessionID(c.next.Add(1))
}

// New constructs a freshly connected, unauthenticated session.
func New(id engine.SessionID) *Session {
	return &Session{
		ID:            id,
		CorrelationID: uuid.NewString(),
		state:         Connected,
	}
}

// Login transitions the session to Authenticated and records the
// principal. A re-LOGIN on an already-authenticated session replaces
// the principal: the last LOGIN on a connection wins.
func (s *Session) Login(principal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Authenticated
	s.principal = principal
}

// Authenticated reports whether order submission is currently allowed.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Authenticated
}

// Principal returns the currently logged-in user, if any.
func (s *Session) Principal() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal
}

// Close transitions the session to Closed. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Closed
}

// State reports the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
