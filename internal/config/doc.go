// Package config loads, normalizes, and validates the operator defaults file
// and resolves the per-run runtime settings.
//
// It supplies repository defaults, reads TOML files, honours environment
// fallbacks such as STASH_API_KEY and RUNPOD_API_KEY, and implements the
// server URL precedence chain that merges task arguments, host plugin
// settings, the defaults file, a best-effort remote fetch, and the
// WHISPER_SERVER_URL environment variable.
//
// Always obtain settings through this package so downstream code receives one
// immutable Runtime value instead of re-reading settings mid-run.
package config
