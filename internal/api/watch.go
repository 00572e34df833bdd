package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pwnflow/pwnflow-tui/internal/errors"
	"github.com/pwnflow/pwnflow-tui/internal/event"
	"github.com/pwnflow/pwnflow-tui/internal/logging"
)

// wsHandshakeTimeout bounds the dial plus upgrade.
const wsHandshakeTimeout = 10 * time.Second

// wsFrame is a notification frame from the backend's project socket.
type wsFrame struct {
	Type      string `json:"type"`
	ProjectID string `json:"project_id"`
	Data      struct {
		Node *Node `json:"node"`
	} `json:"data"`
}

// wsAuth is the first message the backend expects after the upgrade.
type wsAuth struct {
	Token string `json:"token"`
}

// Watcher follows a project's notification socket and republishes the
// backend's change frames as typed events on the bus. It makes exactly
// one connection attempt per Run; when the socket dies the watcher
// reports it and stops, and reconnecting is an explicit fresh Run.
type Watcher struct {
	wsURL     string
	projectID string
	token     func() string
	bus       *event.Bus
	logger    *logging.Logger
	dialer    *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWatcher creates a Watcher for projectID. The socket URL is derived
// from the client's base URL: the backend mounts notification sockets on
// the server root, outside the versioned API prefix. The token is read
// lazily so a login that happens after construction is picked up.
func NewWatcher(client *Client, projectID string, bus *event.Bus, logger *logging.Logger) (*Watcher, error) {
	wsURL, err := socketURL(client.BaseURL(), projectID)
	if err != nil {
		return nil, err
	}
	return &Watcher{
		wsURL:     wsURL,
		projectID: projectID,
		token:     client.Token,
		bus:       bus,
		logger:    logger.WithComponent("watcher").WithProject(projectID),
		dialer: &websocket.Dialer{
			HandshakeTimeout: wsHandshakeTimeout,
		},
	}, nil
}

// socketURL turns an API base URL into the ws(s) URL of the per-project
// notification endpoint.
func socketURL(baseURL, projectID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "invalid base URL")
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/projects/" + projectID
	u.RawQuery = ""
	return u.String(), nil
}

// Run connects, authenticates, and pumps frames onto the bus until the
// socket closes or ctx is canceled. It blocks; callers run it on its own
// goroutine. A WatcherClosedEvent is always published on exit, with the
// close cause (nil for a cancellation or a clean server close).
func (w *Watcher) Run(ctx context.Context) error {
	conn, resp, err := w.dialer.DialContext(ctx, w.wsURL, http.Header{})
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			err = errors.NewGatewayError("notification socket rejected credentials", errors.ErrAuthRequired).
				WithStatusCode(resp.StatusCode)
		} else {
			err = errors.NewGatewayError("failed to reach notification socket", errors.Wrap(errors.ErrNetwork, err.Error()))
		}
		w.bus.Publish(event.NewWatcherClosedEvent(w.projectID, err))
		return err
	}

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()

	if err := conn.WriteJSON(wsAuth{Token: w.token()}); err != nil {
		conn.Close()
		err = errors.NewGatewayError("failed to authenticate notification socket", errors.Wrap(errors.ErrNetwork, err.Error()))
		w.bus.Publish(event.NewWatcherClosedEvent(w.projectID, err))
		return err
	}

	w.logger.Info("notification socket connected")

	// Close the socket when the context ends so the read loop unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	runErr := w.readLoop(conn)
	conn.Close()

	if ctx.Err() != nil {
		// A cancellation is a clean shutdown regardless of how the read
		// loop surfaced it.
		runErr = nil
	}

	w.bus.Publish(event.NewWatcherClosedEvent(w.projectID, runErr))
	if runErr != nil {
		w.logger.Warn("notification socket closed", "error", runErr)
	} else {
		w.logger.Info("notification socket closed")
	}
	return runErr
}

// Close tears down the connection, unblocking a running Run.
func (w *Watcher) Close() {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// readLoop decodes frames until the socket dies. A normal close frame
// returns nil.
func (w *Watcher) readLoop(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.NewGatewayError("notification socket read failed", errors.Wrap(errors.ErrNetwork, err.Error()))
		}

		var frame wsFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			// A malformed frame is not worth killing the socket over.
			w.logger.Warn("discarding undecodable frame", "error", err)
			continue
		}

		w.dispatch(frame)
	}
}

// dispatch maps one backend frame onto bus events. Full-node payloads
// fan out into per-field change events so the reconciler can arbitrate
// each field independently; bare change signals become a single refresh
// event.
func (w *Watcher) dispatch(frame wsFrame) {
	switch frame.Type {
	case "connected", "pong":
		// Handshake chatter.

	case "node_updated":
		if frame.Data.Node == nil {
			w.bus.Publish(event.NewNodesChangedEvent(w.projectID))
			return
		}
		node := *frame.Data.Node
		for _, field := range []string{FieldTitle, FieldDescription, FieldStatus} {
			value, _ := node.FieldValue(field)
			w.bus.Publish(event.NewNodeFieldChangedEvent(node.ID, field, value))
		}

	case "nodes_changed":
		w.bus.Publish(event.NewNodesChangedEvent(w.projectID))

	default:
		w.logger.Debug("ignoring unknown frame type", "type", frame.Type)
	}
}
