package editing

import (
	"sync"
	"time"

	"github.com/pwnflow/pwnflow-tui/internal/logging"
)

// Store owns every edit session in the process. It is the single point
// through which independent widget instances coordinate: one explicit,
// singly-owned service object initialized empty, alive for the duration
// of the UI session, with no teardown requirement.
//
// Bubble Tea runs commands on their own goroutines, so the map is guarded
// by a mutex. The lock is never held across a gateway call; overlapping
// commits are governed by supersede sequence numbers, not mutual
// exclusion (see Coordinator).
type Store struct {
	mu        sync.Mutex
	sessions  map[Key]*session
	baselines map[Key]string

	adapter ContentAdapter
	logger  *logging.Logger
}

// NewStore creates an empty Store. The adapter receives imperative
// content updates on cancel and reconciliation; logger may be
// logging.NopLogger().
func NewStore(adapter ContentAdapter, logger *logging.Logger) *Store {
	return &Store{
		sessions:  make(map[Key]*session),
		baselines: make(map[Key]string),
		adapter:   adapter,
		logger:    logger.WithComponent("store"),
	}
}

// IsActive reports whether an edit session exists for key, i.e. the
// buffered value diverges from the baseline or a commit error is pending.
// It drives the "editing" indicator in the presentation layer.
func (s *Store) IsActive(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[key]
	return ok
}

// SetBaseline records the last known server value for key without
// touching any active session. Call it when entities are first loaded and
// when a reconciled refresh is applied.
func (s *Store) SetBaseline(key Key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baselines[key] = value
}

// BaselineFor returns the last known server value for key, or the empty
// string if none was recorded.
func (s *Store) BaselineFor(key Key) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baselines[key]
}

// Start opens an edit session for key with the given initial buffered
// value. It is idempotent: an existing session is left untouched. If the
// initial value does not diverge from the baseline, no session is
// created.
func (s *Store) Start(key Key, initial string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[key]; ok {
		return
	}
	s.startLocked(key, initial)
}

// Update replaces the buffered value for key, auto-starting a session if
// none exists. Rapid edits coalesce: only the latest value is retained.
// Typing back to the exact baseline dissolves the session, unless a
// commit is in flight or an error is pending.
func (s *Store) Update(key Key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		s.startLocked(key, value)
		return
	}

	sess.buffered = value

	switch sess.state {
	case StateError:
		// A local change after a failed commit resumes editing. If it
		// also returns the buffer to the baseline, the session dissolves
		// like any other non-divergent edit.
		sess.state = StateEditing
		sess.lastErr = nil
		if value == sess.baseline {
			delete(s.sessions, key)
			s.logger.Debug("session dissolved, buffer returned to baseline", "key", key.String())
		}
	case StateEditing:
		if value == sess.baseline {
			delete(s.sessions, key)
			s.logger.Debug("session dissolved, buffer returned to baseline", "key", key.String())
		}
	case StateCommitting:
		// Keep collecting edits while the commit is in flight; the
		// completion handler reconciles buffer against the sent value.
	}
}

// startLocked creates a session if value diverges from the recorded
// baseline. The caller must hold the mutex.
func (s *Store) startLocked(key Key, value string) {
	baseline := s.baselines[key]
	if value == baseline {
		return
	}
	s.sessions[key] = &session{
		key:       key,
		buffered:  value,
		baseline:  baseline,
		state:     StateEditing,
		startedAt: time.Now(),
	}
	s.logger.Debug("session started", "key", key.String())
}

// Get returns the buffered value for key if a session exists, else
// fallback. The presentation layer renders from this so unsaved edits
// survive any re-render.
func (s *Store) Get(key Key, fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[key]; ok {
		return sess.buffered
	}
	return fallback
}

// Cancel deletes the session for key and restores the widget to the
// baseline value. No network call is ever issued; an in-flight commit is
// not aborted, but its completion will find no session to mutate.
func (s *Store) Cancel(key Key) {
	s.mu.Lock()
	sess, ok := s.sessions[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	baseline := sess.baseline
	delete(s.sessions, key)
	s.mu.Unlock()

	s.logger.Debug("session cancelled", "key", key.String())

	// Outside the lock: the adapter may call back into the store.
	s.adapter.RestoreBaseline(key, baseline)
}

// ErrorFor returns the pending commit error for key, if the session is in
// the error state.
func (s *Store) ErrorFor(key Key) (error, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[key]; ok && sess.state == StateError {
		return sess.lastErr, true
	}
	return nil, false
}

// Session returns a read-only snapshot of the session for key.
func (s *Store) Session(key Key) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[key]; ok {
		return sess.snapshot(), true
	}
	return Snapshot{}, false
}

// ActiveKeys returns the keys of all live sessions, in no particular
// order.
func (s *Store) ActiveKeys() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]Key, 0, len(s.sessions))
	for key := range s.sessions {
		keys = append(keys, key)
	}
	return keys
}

// beginCommit marks the session for key as committing and hands the
// caller the buffered value plus the sequence number that authorizes the
// eventual completion. ok is false when no session exists.
func (s *Store) beginCommit(key Key) (value string, seq uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[key]
	if !exists {
		return "", 0, false
	}

	sess.latestSeq++
	sess.state = StateCommitting
	sess.lastErr = nil
	return sess.buffered, sess.latestSeq, true
}

// resolveCommit applies the outcome of a gateway call for the commit
// identified by seq. Returns superseded=true when a newer commit was
// issued meanwhile; the outcome is then discarded.
func (s *Store) resolveCommit(key Key, seq uint64, sent string, saveErr error) (superseded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[key]
	if !exists {
		// Cancelled (or dissolved) while in flight. A success still
		// means the server holds the sent value: silently advance the
		// baseline, mutate nothing else.
		if saveErr == nil {
			s.baselines[key] = sent
		}
		return false
	}

	if sess.latestSeq != seq {
		return true
	}

	if saveErr != nil {
		sess.state = StateError
		sess.lastErr = saveErr
		return false
	}

	s.baselines[key] = sent
	sess.baseline = sent
	if sess.buffered == sent {
		delete(s.sessions, key)
	} else {
		// Edits arrived while the commit was in flight; the session
		// lives on against the new baseline.
		sess.state = StateEditing
	}
	return false
}
