// Package config loads flockdash's configuration.
//
// # Resolution Order
//
// Load builds a Config from three layers, later layers winning:
//
//  1. Built-in defaults
//  2. The TOML file (default ~/.config/flockdash/config.toml)
//  3. FLOCKDASH_* environment variables, optionally seeded from an env file
//
// A missing TOML file is not an error; the defaults apply. An explicitly
// named env file must exist, while the implicit ./.env may be absent.
// Variables already present in the environment are never replaced by the env
// file.
//
// # Fields
//
//	api_base_url     FLOCKDASH_API_BASE_URL     http://127.0.0.1:8080
//	session_path     FLOCKDASH_SESSION_PATH     ~/.config/flockdash/session.json
//	log_path         FLOCKDASH_LOG_PATH         ~/.local/state/flockdash/flockdash.log
//	export_dir       FLOCKDASH_EXPORT_DIR       current directory
//	request_timeout  FLOCKDASH_REQUEST_TIMEOUT  15s
//
// Values are trimmed. Paths expand a leading "~" and become absolute.
// request_timeout uses time.ParseDuration syntax and must be positive.
//
// # Example
//
//	api_base_url = "https://farm.example.com"
//	request_timeout = "10s"
//	export_dir = "~/reports"
package config
