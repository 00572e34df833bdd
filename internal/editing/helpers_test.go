package editing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pwnflow/pwnflow-tui/internal/logging"
)

// errTest stands in for any gateway failure where the tests do not care
// about classification.
var errTest = errors.New("gateway exploded")

// =============================================================================
// Test Helpers
// =============================================================================

// fakeAdapter records imperative content updates from the store and the
// reconciler.
type fakeAdapter struct {
	mu       sync.Mutex
	applied  map[Key][]string // ApplyContent calls per key
	restored map[Key][]string // RestoreBaseline calls per key
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		applied:  make(map[Key][]string),
		restored: make(map[Key][]string),
	}
}

func (a *fakeAdapter) ApplyContent(key Key, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.applied[key] = append(a.applied[key], value)
}

func (a *fakeAdapter) RestoreBaseline(key Key, baseline string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.restored[key] = append(a.restored[key], baseline)
}

func (a *fakeAdapter) appliedValues(key Key) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.applied[key]...)
}

func (a *fakeAdapter) restoredValues(key Key) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.restored[key]...)
}

// fakeGateway scripts Save outcomes. With block=true every Save parks on
// a rendezvous until the test releases it, which lets tests interleave
// overlapping commits deterministically: releaseOldest resolves the
// longest-parked Save, releaseNewest the most recently parked one.
type fakeGateway struct {
	mu    sync.Mutex
	err   error    // returned by every Save
	calls []string // values in call order
	block bool

	started chan string  // receives the value when a blocked Save begins
	waiters []chan error // parked Saves in start order
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{}
}

func newBlockingGateway() *fakeGateway {
	return &fakeGateway{
		block:   true,
		started: make(chan string, 8),
	}
}

func (g *fakeGateway) Save(ctx context.Context, entityID, fieldID, value string) error {
	g.mu.Lock()
	g.calls = append(g.calls, value)
	err := g.err
	if g.block {
		wait := make(chan error, 1)
		g.waiters = append(g.waiters, wait)
		g.mu.Unlock()
		g.started <- value
		return <-wait
	}
	g.mu.Unlock()
	return err
}

// releaseOldest resolves the longest-parked blocked Save with err.
func (g *fakeGateway) releaseOldest(err error) {
	g.mu.Lock()
	wait := g.waiters[0]
	g.waiters = g.waiters[1:]
	g.mu.Unlock()
	wait <- err
}

// releaseNewest resolves the most recently parked blocked Save with err.
func (g *fakeGateway) releaseNewest(err error) {
	g.mu.Lock()
	wait := g.waiters[len(g.waiters)-1]
	g.waiters = g.waiters[:len(g.waiters)-1]
	g.mu.Unlock()
	wait <- err
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGateway) callValues() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGateway) failWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

// newTestStore builds a store with a fresh fake adapter.
func newTestStore(t *testing.T) (*Store, *fakeAdapter) {
	t.Helper()
	adapter := newFakeAdapter()
	return NewStore(adapter, logging.NopLogger()), adapter
}

// descKey is the key used throughout the tests: the description field of
// node n1.
func descKey() Key {
	return NewKey("n1", "description")
}
