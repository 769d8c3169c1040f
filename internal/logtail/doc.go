// Package logtail reads the end of flockdash's own log file for the
// activity view.
//
// # Reading
//
// Read returns the last N lines of a file in one pass using a ring buffer of
// N slots, so memory is bounded by N rather than the file size:
//
//	lines, err := logtail.Read(cfg.LogPath, 400)
//
// A missing file returns nil, nil; the log may not exist before the first
// entry is written. Other I/O errors are returned wrapped.
//
// # Decoding
//
// The log is zap's JSON encoding. ParseEntry decodes one line into an Entry
// with level, logger name, message, error and the remaining fields as
// strings. Lines that are not JSON (a panic trace, say) are kept verbatim.
//
// Entry.Format renders a compact single line:
//
//	09:05:03 WARN  [client] api returned error path=/api/poultry/flocks/1 status=404
//
// Colouring is left to the UI, which knows the active theme.
package logtail
