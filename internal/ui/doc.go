// Package ui provides the terminal dashboard for flockdash, built on Bubble
// Tea.
//
// # Architecture Overview
//
// Model is a value-receiver tea.Model. It owns no flock data of its own: the
// rows, the edit form and the error state live in a dashboard.Controller, and
// the model copies a state.Snapshot after every backend call. Each call runs
// in its own tea.Cmd goroutine and reports back with a message tagged with
// the controller that issued it, so results from before a reload are dropped.
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View and the backend commands
//   - grid_view.go: flock grid rendering, selection, sort, filter and paging
//   - form.go: create/update dialog and the column filter dialog
//   - confirm.go: the blocking Confirmer bridge and its prompt
//   - detail.go: the flock detail route
//   - logs.go: activity view over flockdash's own log file
//   - errorpanel.go: the terminal error view
//   - header.go, help.go, keys.go, theme.go: chrome, bindings and palettes
//
// # Confirmation
//
// The controller asks for confirmation from a command goroutine, but only
// the UI loop may draw. promptConfirmer hands each question over a channel;
// waitForPrompt turns it into a message and the answer goes back on a
// buffered reply channel:
//
//	controller goroutine            UI loop
//	Confirm(ctx, prompt) ──req──▶   confirmRequestMsg → confirm modal
//	      ◀────────── reply ──────  y / n
//
// A cancelled context answers "no" on the controller side.
//
// # Error Handling
//
// Once the controller records a backend failure the whole view is replaced
// by the error panel. Only quit and ctrl+r remain; ctrl+r discards the
// controller and grid and loads again from scratch.
//
// # Key Bindings
//
// Bindings are declared once in keys.go with bubbles/key and matched with
// key.Matches. The help overlay is generated from the same key map.
package ui
