// Package logging assembles the structured slog loggers used across the
// plugin.
//
// It owns two hand-built handlers: the plugin handler, which emits the host's
// stderr line protocol ("[I] message key=value"), and the console handler used
// by the operator commands, which adds timestamps and level labels. The
// package also centralizes context-aware helpers so component code can tag
// log lines with run correlation IDs and scene identifiers, plus a no-op
// logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits lines the host (or the operator) can actually parse.
package logging
