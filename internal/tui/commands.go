package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pwnflow/pwnflow-tui/internal/api"
	"github.com/pwnflow/pwnflow-tui/internal/editing"
	"github.com/pwnflow/pwnflow-tui/internal/errors"
)

// Commands run on their own goroutines; the HTTP client's timeout bounds
// every call, so none of them can wedge the update loop.

// loadNodesCmd fetches the project's node list.
func (m *Model) loadNodesCmd() tea.Cmd {
	client, projectID := m.client, m.projectID
	return func() tea.Msg {
		nodes, links, err := client.ListNodes(context.Background(), projectID)
		return nodesLoadedMsg{nodes: nodes, links: links, err: err}
	}
}

// commitCmd persists the buffered value for key.
func (m *Model) commitCmd(key editing.Key) tea.Cmd {
	coordinator := m.coordinator
	return func() tea.Msg {
		committed, err := coordinator.Commit(context.Background(), key)
		return commitResultMsg{key: key, committed: committed, err: err}
	}
}

// cycleStatusCmd advances the selected node's status and persists it.
// Status is a single-keystroke toggle, not a text session, so it goes
// straight to the gateway.
func (m *Model) cycleStatusCmd() tea.Cmd {
	node := m.selectedNode()
	if node == nil {
		return nil
	}

	next := statusCycle[0]
	for i, s := range statusCycle {
		if s == node.Status {
			next = statusCycle[(i+1)%len(statusCycle)]
			break
		}
	}

	client, projectID, nodeID := m.client, m.projectID, node.ID
	return func() tea.Msg {
		err := client.SaveNodeField(context.Background(), projectID, nodeID, api.FieldStatus, next.String())
		return statusSavedMsg{nodeID: nodeID, status: next, err: err}
	}
}

// userMessage renders an error for the status line. Non-user-facing
// errors get a generic line; the log carries the detail.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.IsAuth(err) {
		return "authentication required (check PWNFLOW_API_TOKEN or login again)"
	}
	if errors.IsUserFacing(err) {
		return err.Error()
	}
	return "request failed; see log for details"
}
