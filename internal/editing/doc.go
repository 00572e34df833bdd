// Package editing implements buffered edit sessions for rich-text fields
// bound to remote entities. It is the one place in the client where
// unsaved user input lives: the widget layer reports local changes into a
// session store, commits are serialized per field against the persistence
// gateway, and asynchronously arriving server values are reconciled
// against in-progress edits so a refresh can never clobber typing.
//
// The package deliberately knows nothing about Bubble Tea or HTTP. The
// presentation layer plugs in through ContentAdapter, the backend through
// Gateway.
//
// # Lifecycle
//
// A session for a (entity, field) key is created on the first local
// mutation that diverges from the last known server value (the baseline),
// carries exactly the latest buffered value (no keystroke history), and
// is destroyed on successful commit or explicit cancel. A failed commit
// retains the session together with its error; buffered content is never
// discarded on failure.
//
// # Overlapping commits
//
// Commits never block each other. Each issued commit captures a per-key
// sequence number; when its gateway call resolves, the result is applied
// only if no newer commit has been issued for the same key in the
// meantime. A superseded or cancelled commit that resolves successfully
// may still silently advance the baseline: the server now holds the value
// that was actually sent.
package editing
