package editing

import "time"

// State represents the lifecycle state of an edit session.
type State int

const (
	// StateEditing means the session holds a buffered value that diverges
	// from the baseline and no commit is in flight.
	StateEditing State = iota
	// StateCommitting means a commit has been issued and its gateway call
	// has not resolved yet. The buffer stays freely mutable meanwhile.
	StateCommitting
	// StateError means the most recent commit failed. The buffered value
	// is retained; a retry is always a fresh user-initiated commit.
	StateError
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateCommitting:
		return "committing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// session is the internal record of unsaved local edits for one key.
// All access goes through the Store, which owns the locking.
type session struct {
	key       Key
	buffered  string
	baseline  string
	state     State
	lastErr   error
	startedAt time.Time

	// latestSeq is the sequence number of the most recently issued commit
	// for this session. Only the commit holding this number may mutate
	// state when its gateway call resolves.
	latestSeq uint64
}

// Snapshot is a read-only copy of a session handed to callers.
type Snapshot struct {
	Key       Key
	Buffered  string
	Baseline  string
	State     State
	LastErr   error
	StartedAt time.Time
}

func (s *session) snapshot() Snapshot {
	return Snapshot{
		Key:       s.key,
		Buffered:  s.buffered,
		Baseline:  s.baseline,
		State:     s.state,
		LastErr:   s.lastErr,
		StartedAt: s.startedAt,
	}
}
