// Package services defines shared utilities consumed by the task dispatcher
// and the external integrations (host API, whisper server, cloud inference).
//
// Key responsibilities:
//   - Context helpers that stamp run correlation IDs, task names, and scene
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (configuration vs tool vs transport) uniform across
//     components.
//   - The Transcriber capability shared by the local whisper client and the
//     cloud inference client.
//
// Use these helpers when wiring new task logic so operational behaviour
// (error handling, observability) stays uniform across the plugin.
package services
