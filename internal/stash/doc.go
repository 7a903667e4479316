// Package stash adapts the host's plugin protocol: the JSON task descriptor
// arriving on stdin and the GraphQL API used to look up scenes and saved
// plugin settings.
//
// The descriptor is duck-typed in the wild. Settings arrive as a string-keyed
// map or as a list of {key, value} objects depending on host version, and the
// server_connection block spells its keys several ways. All of that is
// normalized once at the boundary; lookup logic only ever sees the canonical
// forms.
//
// Reading the descriptor never fails. Malformed input produces an empty
// Payload so a misconfigured host degrades to default behaviour instead of a
// crashed plugin.
package stash
