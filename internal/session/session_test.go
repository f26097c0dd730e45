package session

import "testing"

func TestRegistryAuthenticate(t *testing.T) {
	r := NewRegistry(map[string]string{"alice": "secret"})

	if !r.Authenticate("alice", "secret") {
		t.Errorf("expected valid credentials to authenticate")
	}
	if r.Authenticate("alice", "wrong") {
		t.Errorf("expected wrong password to fail")
	}
	if r.Authenticate("bob", "anything") {
		t.Errorf("expected unknown user to fail")
	}
}

func TestSessionLifecycle(t *testing.T) {
	var counter IDCounter
	s := New(counter.Next())

	if s.Authenticated() {
		t.Fatalf("new session must not be authenticated")
	}
	if s.State() != Connected {
		t.Fatalf("expected Connected, got %v", s.State())
	}

	s.Login("alice")
	if !s.Authenticated() {
		t.Fatalf("expected session to be authenticated after login")
	}
	if s.Principal() != "alice" {
		t.Fatalf("expected principal alice, got %q", s.Principal())
	}

	// Re-login replaces the principal on the same session.
	s.Login("bob")
	if s.Principal() != "bob" {
		t.Fatalf("expected re-login to replace principal, got %q", s.Principal())
	}

	s.Close()
	if s.State() != Closed {
		t.Fatalf("expected Closed, got %v", s.State())
	}
	if s.Authenticated() {
		t.Fatalf("closed session must not report authenticated")
	}
}

func TestIDCounterIsMonotonicAndUnique(t *testing.T) {
	var counter IDCounter
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		id := counter.Next()
		if seen[uint64(id)] {
			t.Fatalf("duplicate session id %d", id)
		}
		seen[uint64(id)] = true
	}
}
