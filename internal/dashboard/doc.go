// Package dashboard implements the flock dashboard controller.
//
// The Controller is the single source of truth for the visible rows and the
// edit form. Every backend call goes through it, and every failure becomes
// one string in the snapshot's LastError, after which all operations return
// ErrHalted until the caller builds a new Controller.
//
// Update and delete ask a Confirmer first; create does not. Submit and
// Delete each hold an in-flight flag from before the prompt until the
// refetch completes, so a repeated keypress returns ErrInFlight without
// prompting or calling the backend.
package dashboard
