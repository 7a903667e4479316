// Package dispatch routes one task descriptor to the matching plugin
// operation.
//
// The host names work three ways: an explicit task name, an args.mode value,
// or a scene-update hook context. Modes are checked in a fixed order and the
// first match runs. Bad input (missing scenes, unusable ids, absent files)
// is logged and abandoned so the host sees a clean exit; infrastructure
// failures return to the caller's top-level guard.
package dispatch
