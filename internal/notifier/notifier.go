// Package notifier fans fills out to the sessions that participated in
// them. Per session it holds only a bounded outbound channel, drained by
// that session's own writer goroutine, and an optional stall callback;
// both are dropped when the session unregisters.
package notifier

import (
	"sync"

	"github.com/sirupsen/logrus"

	"matchcore/internal/engine"
)

// registration is one session's outbound channel and stall callback.
type registration struct {
	out     chan<- engine.Fill
	onStall func()
}

// Notifier is a registry of session_id -> outbound fill channel.
// Registration is concurrent with notification: readers (Notify) and
// writers (Register/Unregister) share one RWMutex, writer-exclusive.
type Notifier struct {
	mu  sync.RWMutex
	out map[engine.SessionID]registration
	log *logrus.Entry
}

// New constructs an empty notifier.
func New(log *logrus.Entry) *Notifier {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Notifier{out: make(map[engine.SessionID]registration), log: log}
}

// Register installs or replaces the outbound channel for a session.
// onStall, if non-nil, is invoked when the channel is found full and
// the session is disconnected as a result; the transport layer uses it
// to close the underlying connection rather than letting a slow reader
// stall the matcher.
func (n *Notifier) Register(id engine.SessionID, out chan<- engine.Fill, onStall func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.out[id] = registration{out: out, onStall: onStall}
}

// Unregister removes a session's outbound channel. Fills already in
// flight to it are simply dropped by Notify once this returns.
func (n *Notifier) Unregister(id engine.SessionID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.out, id)
}

// Notify delivers fill to the maker's session and, if different, the
// taker's session. Delivery is non-blocking per channel: a session
// whose outbound channel is full is disconnected rather than allowed
// to stall the matcher, per the bounded-queue-with-disconnect policy.
func (n *Notifier) Notify(fill engine.Fill) {
	n.deliver(fill.MakerSession, fill)
	if fill.TakerSession != fill.MakerSession {
		n.deliver(fill.TakerSession, fill)
	}
}

func (n *Notifier) deliver(id engine.SessionID, fill engine.Fill) {
	n.mu.RLock()
	reg, ok := n.out[id]
	n.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case reg.out <- fill:
	default:
		n.log.WithField("session_id", id).Warn("outbound fill queue full, disconnecting session")
		n.Unregister(id)
		if reg.onStall != nil {
			reg.onStall()
		}
	}
}
