package tui

import (
	"github.com/pwnflow/pwnflow-tui/internal/api"
	"github.com/pwnflow/pwnflow-tui/internal/editing"
)

// Messages delivered to the model's Update loop. Everything that reaches
// the model from another goroutine (gateway calls, the notification
// watcher, the content relay) arrives as one of these.

// nodesLoadedMsg carries the result of a node list fetch.
type nodesLoadedMsg struct {
	nodes []api.Node
	links []api.NodeLink
	err   error
}

// commitResultMsg carries the outcome of a commit for one key.
type commitResultMsg struct {
	key       editing.Key
	committed bool
	err       error
}

// statusSavedMsg carries the outcome of a status cycle save.
type statusSavedMsg struct {
	nodeID string
	status api.Status
	err    error
}

// applyContentMsg asks the model to replace a widget's content with an
// authoritative server value.
type applyContentMsg struct {
	key   editing.Key
	value string
}

// restoreBaselineMsg asks the model to revert a widget to the baseline
// after a cancel.
type restoreBaselineMsg struct {
	key      editing.Key
	baseline string
}

// nodesChangedMsg signals that the project's node set changed server-side
// and the list should be refetched.
type nodesChangedMsg struct{}

// watcherClosedMsg signals that the notification socket closed.
type watcherClosedMsg struct {
	err error
}

// loginDoneMsg carries the outcome of the startup login.
type loginDoneMsg struct {
	err error
}
