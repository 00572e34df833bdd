package editing

import (
	"github.com/pwnflow/pwnflow-tui/internal/logging"
)

// Reconciler decides whether an externally arriving server value may
// reach the presentation layer or must be suppressed because the user is
// editing that field right now. Local edits always win over a concurrent
// refresh; the dropped value is not queued, the next refresh or the
// commit itself re-synchronizes.
type Reconciler struct {
	store   *Store
	adapter ContentAdapter
	logger  *logging.Logger
}

// NewReconciler creates a Reconciler over store and adapter.
func NewReconciler(store *Store, adapter ContentAdapter, logger *logging.Logger) *Reconciler {
	return &Reconciler{
		store:   store,
		adapter: adapter,
		logger:  logger.WithComponent("reconciler"),
	}
}

// Apply handles a "server value changed" notification for key.
//
//   - Active session for key: the update is dropped.
//   - Value equal to the current baseline: no-op, so the widget content
//     and cursor position are not reset for nothing.
//   - Otherwise: the value is pushed into the widget and becomes the new
//     baseline.
//
// Returns true when the value was applied to the presentation.
func (r *Reconciler) Apply(key Key, newValue string) bool {
	if r.store.IsActive(key) {
		r.logger.Debug("refresh dropped, session active", "key", key.String())
		return false
	}

	if newValue == r.store.BaselineFor(key) {
		return false
	}

	r.store.SetBaseline(key, newValue)
	r.adapter.ApplyContent(key, newValue)
	r.logger.Debug("refresh applied", "key", key.String())
	return true
}
