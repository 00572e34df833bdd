// Package event defines event types for decoupling components in
// pwnflow-tui. Server change notifications flow from the refresh watcher
// through the bus to the reconciler and the TUI without requiring direct
// dependencies between them.
package event

import "time"

// Event type identifiers published on the bus.
const (
	TypeNodeFieldChanged = "node.field_changed"
	TypeNodesChanged     = "nodes.changed"
	TypeWatcherClosed    = "watcher.closed"
)

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "node.field_changed").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Server Refresh Events
// -----------------------------------------------------------------------------

// NodeFieldChangedEvent is emitted when the backend reports a new
// authoritative value for a single node field. The reconciliation policy
// decides whether the value reaches the presentation layer.
type NodeFieldChangedEvent struct {
	baseEvent
	NodeID string // Node whose field changed
	Field  string // Field name (e.g., "description", "title")
	Value  string // New authoritative plain-string value
}

// NewNodeFieldChangedEvent creates a NodeFieldChangedEvent.
func NewNodeFieldChangedEvent(nodeID, field, value string) NodeFieldChangedEvent {
	return NodeFieldChangedEvent{
		baseEvent: newBaseEvent(TypeNodeFieldChanged),
		NodeID:    nodeID,
		Field:     field,
		Value:     value,
	}
}

// NodesChangedEvent is emitted when the backend reports that the node set
// of a project changed (created, deleted, relinked). Consumers re-fetch
// the node list; field-level reconciliation is not involved.
type NodesChangedEvent struct {
	baseEvent
	ProjectID string // Project whose graph changed
}

// NewNodesChangedEvent creates a NodesChangedEvent.
func NewNodesChangedEvent(projectID string) NodesChangedEvent {
	return NodesChangedEvent{
		baseEvent: newBaseEvent(TypeNodesChanged),
		ProjectID: projectID,
	}
}

// -----------------------------------------------------------------------------
// Watcher Lifecycle Events
// -----------------------------------------------------------------------------

// WatcherClosedEvent is emitted when the notification socket closes,
// normally or otherwise. There is no automatic reconnect; the TUI offers
// a manual one.
type WatcherClosedEvent struct {
	baseEvent
	ProjectID string // Project the watcher was following
	Err       error  // Close cause, nil on clean shutdown
}

// NewWatcherClosedEvent creates a WatcherClosedEvent.
func NewWatcherClosedEvent(projectID string, err error) WatcherClosedEvent {
	return WatcherClosedEvent{
		baseEvent: newBaseEvent(TypeWatcherClosed),
		ProjectID: projectID,
		Err:       err,
	}
}
