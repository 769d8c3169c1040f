package state

import (
	"sync"
	"time"

	"github.com/kombefarm/flockdash/internal/poultry"
)

// Snapshot is the dashboard state the UI renders from.
type Snapshot struct {
	Rows        []poultry.FlockRecord
	Form        FormState
	DialogOpen  bool
	Loading     bool
	LastError   string
	FormError   string
	Submitting  bool
	Deleting    bool
	LastUpdated time.Time
}

// Halted reports whether an error has replaced the view.
func (s Snapshot) Halted() bool {
	return s.LastError != ""
}

// Busy reports whether any backend mutation is outstanding.
func (s Snapshot) Busy() bool {
	return s.Submitting || s.Deleting
}

// Store coordinates concurrent access to the snapshot. Backend calls run in
// their own goroutines while the UI reads.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	init     sync.Once
}

// NewStore returns a store holding the empty form.
func NewStore() *Store {
	s := &Store{}
	s.ensure()
	return s
}

func (s *Store) ensure() {
	s.init.Do(func() {
		if s.snapshot.Form.values == nil {
			s.snapshot.Form = EmptyForm()
		}
	})
}

// Update applies fn to the stored snapshot under the write lock.
func (s *Store) Update(fn func(*Snapshot)) {
	s.ensure()
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.snapshot)
}

// ReplaceRows swaps in a freshly fetched row collection.
func (s *Store) ReplaceRows(rows []poultry.FlockRecord) {
	s.Update(func(snap *Snapshot) {
		snap.Rows = cloneRows(rows)
		snap.LastUpdated = time.Now()
	})
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.ensure()
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Rows = cloneRows(s.snapshot.Rows)
	return snap
}

func cloneRows(rows []poultry.FlockRecord) []poultry.FlockRecord {
	if len(rows) == 0 {
		return nil
	}
	dup := make([]poultry.FlockRecord, len(rows))
	copy(dup, rows)
	return dup
}
