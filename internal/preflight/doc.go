// Package preflight provides readiness checks for the external pieces a
// transcription run depends on: the ffmpeg binary, the defaults file, the
// whisper server, the host GraphQL API, and cloud credentials.
//
// The doctor command renders RunAll as a table. Individual check functions
// are exported for callers that only care about one dependency.
package preflight
