// Package main hosts the whisper-transcribe entrypoint and command graph.
//
// Invoked bare by the Stash host, the root command reads a task descriptor
// from stdin and runs one transcription task (plugin mode). The subcommands
// are operator tooling around the same internals: direct file transcription,
// scene listing, cloud inference, preflight checks, and configuration
// scaffolding.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through a command or flag here.
package main
