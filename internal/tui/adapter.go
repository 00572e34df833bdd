package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pwnflow/pwnflow-tui/internal/editing"
)

// ContentRelay carries imperative widget updates from the editing core
// into the Bubble Tea update loop. The store and the reconciler may call
// it from any goroutine; the relay converts each call into a message and
// hands it to the running program, so only the update loop ever touches
// the widgets.
//
// Calls that arrive before the program is bound are queued and flushed
// on Bind. That window exists because the store is constructed before
// tea.Program is.
type ContentRelay struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []tea.Msg
}

// NewContentRelay creates an unbound relay.
func NewContentRelay() *ContentRelay {
	return &ContentRelay{}
}

// Bind attaches the relay to a running program's Send and flushes any
// queued messages in order.
func (r *ContentRelay) Bind(send func(tea.Msg)) {
	r.mu.Lock()
	r.send = send
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, msg := range pending {
		send(msg)
	}
}

// ApplyContent relays an authoritative server value for key.
func (r *ContentRelay) ApplyContent(key editing.Key, value string) {
	r.relay(applyContentMsg{key: key, value: value})
}

// RestoreBaseline relays a post-cancel baseline restore for key.
func (r *ContentRelay) RestoreBaseline(key editing.Key, baseline string) {
	r.relay(restoreBaselineMsg{key: key, baseline: baseline})
}

func (r *ContentRelay) relay(msg tea.Msg) {
	r.mu.Lock()
	send := r.send
	if send == nil {
		r.pending = append(r.pending, msg)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	send(msg)
}
