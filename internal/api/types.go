// Package api implements the persistence gateway for pwnflow-tui: a REST
// client for the Pwnflow backend plus a WebSocket watcher for server-side
// change notifications. All network I/O in the application funnels
// through this package.
package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Field names the client accepts for partial node updates.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
)

// -----------------------------------------------------------------------------
// Node Status
// -----------------------------------------------------------------------------

// Status is the progress state of a node in the attack tree. The set is
// closed: values outside it are rejected at the JSON boundary instead of
// being carried around as free-form strings.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusSuccess
	StatusFailed
	StatusNotApplicable
)

// statusWire maps Status values to their backend representation.
var statusWire = map[Status]string{
	StatusNotStarted:    "NOT_STARTED",
	StatusInProgress:    "IN_PROGRESS",
	StatusSuccess:       "SUCCESS",
	StatusFailed:        "FAILED",
	StatusNotApplicable: "NOT_APPLICABLE",
}

// String returns the backend wire representation of the status.
func (s Status) String() string {
	if wire, ok := statusWire[s]; ok {
		return wire
	}
	return "NOT_STARTED"
}

// ParseStatus converts a backend status string into a Status.
func ParseStatus(s string) (Status, error) {
	for status, wire := range statusWire {
		if wire == s {
			return status, nil
		}
	}
	return StatusNotStarted, fmt.Errorf("unknown node status %q", s)
}

// MarshalJSON encodes the status as its wire string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire string into a Status. Unknown values are
// an error so a drifting backend enum surfaces loudly rather than as a
// silently misrendered node.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// -----------------------------------------------------------------------------
// Node
// -----------------------------------------------------------------------------

// Node is a single node of a project's attack tree as the backend
// serves it. Title and Description are the editable rich-text fields;
// the rest is read-only context for the TUI.
type Node struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	XPos        float64  `json:"x_pos"`
	YPos        float64  `json:"y_pos"`
	Tags        []string `json:"tags,omitempty"`
	Parents     []string `json:"parents,omitempty"`
	Children    []string `json:"children,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// FieldValue returns the plain-string value of an editable field.
func (n Node) FieldValue(field string) (string, bool) {
	switch field {
	case FieldTitle:
		return n.Title, true
	case FieldDescription:
		return n.Description, true
	case FieldStatus:
		return n.Status.String(), true
	default:
		return "", false
	}
}

// NodeLink is a parent-to-child edge in the attack tree.
type NodeLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// nodesResponse is the payload of the list-nodes endpoint.
type nodesResponse struct {
	Nodes []Node     `json:"nodes"`
	Links []NodeLink `json:"links"`
}

// tokenResponse is the payload of the login endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// errorResponse is the body the backend sends alongside non-2xx statuses.
type errorResponse struct {
	Detail string `json:"detail"`
}
