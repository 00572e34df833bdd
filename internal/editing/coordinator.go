package editing

import (
	"context"

	"github.com/pwnflow/pwnflow-tui/internal/errors"
	"github.com/pwnflow/pwnflow-tui/internal/logging"
)

// Coordinator serializes commit requests per key against the persistence
// gateway. "Serializes" is a statement about outcomes, not scheduling:
// gateway calls may overlap freely, but only the most recently issued
// commit for a key is allowed to mutate state when it resolves.
type Coordinator struct {
	store   *Store
	gateway Gateway
	logger  *logging.Logger
}

// NewCoordinator creates a Coordinator over store and gateway.
func NewCoordinator(store *Store, gateway Gateway, logger *logging.Logger) *Coordinator {
	return &Coordinator{
		store:   store,
		gateway: gateway,
		logger:  logger.WithComponent("coordinator"),
	}
}

// Commit persists the buffered value for key.
//
// It returns (true, nil) when the buffered value became the new baseline,
// including the trivial case where no session exists and there is nothing
// to do. On failure the session is retained in the error state with the
// buffered value untouched and (false, err) is returned; a retry is
// always a fresh call to Commit.
//
// If a newer commit for the same key is issued while this one's gateway
// call is in flight, this call's outcome is discarded and it returns
// (false, errors.ErrCommitSuperseded).
//
// Commit blocks for the duration of the gateway call and is intended to
// be wrapped in a tea.Cmd (or called from any goroutine).
func (c *Coordinator) Commit(ctx context.Context, key Key) (bool, error) {
	value, seq, ok := c.store.beginCommit(key)
	if !ok {
		// Nothing buffered; the baseline already matches.
		return true, nil
	}

	log := c.logger.WithKey(key.String()).With("seq", seq)
	log.Debug("commit issued")

	saveErr := c.gateway.Save(ctx, key.EntityID, key.FieldID, value)

	if superseded := c.store.resolveCommit(key, seq, value, saveErr); superseded {
		log.Debug("commit superseded", "save_failed", saveErr != nil)
		return false, errors.NewEditError("commit superseded by a newer commit", errors.ErrCommitSuperseded).
			WithKey(key.String()).
			WithSeverity(errors.SeverityDebug)
	}

	if saveErr != nil {
		log.Warn("commit failed", "error", saveErr)
		return false, errors.NewEditError("failed to persist buffered value", saveErr).
			WithKey(key.String()).
			WithRetryable(errors.IsRetryable(saveErr))
	}

	log.Debug("commit succeeded")
	return true, nil
}
