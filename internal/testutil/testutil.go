// Package testutil provides shared fixtures for engine, harness and CLI
// tests: throwaway stores, an event-recording notifier, and principal
// minting.
package testutil

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/fenlabs/barter/internal/ledger"
	"github.com/fenlabs/barter/internal/store"
)

// OpenStore opens a fresh in-memory store and closes it when the test ends.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// NewPrincipal mints a fresh random principal identifier.
//
// Tests that care about readable output use fixed names instead; this is
// for tests that need principals guaranteed not to collide.
func NewPrincipal() ledger.Principal {
	return ledger.Principal(uuid.NewString())
}

// Recorder is a Notifier that captures every delivered event.
//
// Thread-safe: the engine may be driven from multiple goroutines in
// concurrency tests.
type Recorder struct {
	mu     sync.Mutex
	events []ledger.Event
}

// Notify implements ledger.Notifier.
func (r *Recorder) Notify(ev ledger.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the captured events in delivery order.
func (r *Recorder) Events() []ledger.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledger.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the captured event kinds in delivery order.
func (r *Recorder) Kinds() []ledger.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]ledger.EventKind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

// Reset discards all captured events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
