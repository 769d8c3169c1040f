// Package app is the composition root for flockdash.
//
// # Startup
//
//	┌──────────────┐
//	│ bootstrap()  │
//	└──────┬───────┘
//	       ├─────> config.Load()      TOML file, .env, FLOCKDASH_* overrides
//	       ├─────> logging.New()      JSON log file (the TUI owns the terminal)
//	       ├─────> session.Load()     cached user with access token
//	       └─────> poultry.NewClient() REST client with timeout and logger
//
// Run then hands the pieces to ui.Run, which builds the dashboard controller.
// Export builds a controller without a UI, loads once and writes a CSV or
// XLSX file. ServeDemo serves the in-memory backend from poultrytest so the
// dashboard can be tried without the real API.
//
// # Error Handling
//
// Startup failures (bad config, missing session, bad base URL) are returned
// wrapped and printed by the CLI. Nothing is retried: the dashboard loads
// once, and a failed load surfaces in the TUI's error panel or, for Export,
// as the returned error.
package app
