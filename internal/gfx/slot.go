package gfx

import "sync"

// ProviderSlot holds the active graphics backend and supports replacing it
// at runtime. Snapshot returns the currently installed reference; a snapshot
// stays usable for its holder's whole lifetime even if the slot is replaced
// concurrently, with the garbage collector keeping the old backend alive as
// long as any job still runs against it.
//
// One job's entire execution uses exactly one snapshot, captured when the
// worker dequeues it. A format-support check in Submit may run against
// provider A while the job later executes against provider B if Replace
// lands in between; that can surface as a per-dimension failure and is an
// accepted limitation of runtime replacement, not a fault in the slot.
type ProviderSlot struct {
	mu       sync.Mutex
	provider Provider
}

// NewProviderSlot returns a slot holding initial.
func NewProviderSlot(initial Provider) *ProviderSlot {
	return &ProviderSlot{provider: initial}
}

// Replace installs p as the active backend.
func (s *ProviderSlot) Replace(p Provider) {
	s.mu.Lock()
	s.provider = p
	s.mu.Unlock()
}

// Snapshot returns the currently installed backend.
func (s *ProviderSlot) Snapshot() Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}
