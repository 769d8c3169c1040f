// Package state holds the dashboard state shared between backend calls and
// the UI.
//
// # Overview
//
// Every backend call runs in its own tea.Cmd goroutine while the Bubble Tea
// event loop renders. The Store is the coordination point between the two:
//
//	Controller (tea.Cmd):          UI (event loop):
//	┌──────────────────┐           ┌──────────────────┐
//	│ ListFlocks()     │           │                  │
//	│      ↓           │           │                  │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	│                  │  (mutex)  │      ↓           │
//	│                  │           │  render view     │
//	└──────────────────┘           └──────────────────┘
//
// # Core Types
//
// FormState stages create/update input as text, keyed by wire field name.
// A non-zero ID means the form targets an existing record. With never
// mutates its receiver, so a FormState held by the UI cannot change under
// it.
//
// Snapshot is the state at a point in time: rows, form, dialog visibility,
// the loading flag, the halting error string and the in-flight flags.
//
// Store wraps a Snapshot in a sync.RWMutex. Update runs a closure under the
// write lock so a check-and-set (such as claiming the in-flight flag) is
// atomic. Snapshot returns a copy with its own row slice.
//
// # Zero Value
//
// A zero Store is ready to use and holds the empty form template:
//
//	var store state.Store
//	store.Snapshot().Form.Equal(state.EmptyForm()) // true
package state
