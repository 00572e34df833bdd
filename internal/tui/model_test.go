package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pwnflow/pwnflow-tui/internal/api"
	"github.com/pwnflow/pwnflow-tui/internal/config"
	"github.com/pwnflow/pwnflow-tui/internal/editing"
	"github.com/pwnflow/pwnflow-tui/internal/errors"
	"github.com/pwnflow/pwnflow-tui/internal/logging"
)

// testBackend is a minimal fake of the node endpoints: it serves a fixed
// node list and records every field save.
type testBackend struct {
	mu    sync.Mutex
	nodes []api.Node
	saves []map[string]string
}

func (b *testBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/projects/p1/nodes/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if r.Method == http.MethodPut {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			b.saves = append(b.saves, body)
			w.Write([]byte(`{}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"nodes": b.nodes, "links": []any{}})
	})
	return mux
}

func (b *testBackend) savedFields() []map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]string(nil), b.saves...)
}

// testHarness bundles a model with its collaborators, relay bound
// synchronously into Update so widget restores land immediately.
type testHarness struct {
	model   *Model
	store   *editing.Store
	backend *testBackend
	blurred []editing.Key
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	backend := &testBackend{
		nodes: []api.Node{
			{ID: "n1", Title: "Recon", Description: "Hello", Status: api.StatusInProgress},
			{ID: "n2", Title: "Exploit", Description: "", Status: api.StatusNotStarted},
		},
	}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.API.BaseURL = server.URL
	cfg.API.Project = "p1"

	logger := logging.NopLogger()
	client := api.NewClient(cfg.API, logger)
	relay := NewContentRelay()
	store := editing.NewStore(relay, logger)
	coordinator := editing.NewCoordinator(store, api.NewFieldGateway(client, "p1"), logger)

	h := &testHarness{store: store, backend: backend}

	tracker := editing.NewFocusTracker(func(key editing.Key) {
		h.blurred = append(h.blurred, key)
	}, logger)

	h.model = NewModel(ModelDeps{
		Config:      cfg,
		Logger:      logger,
		Client:      client,
		Store:       store,
		Coordinator: coordinator,
		Tracker:     tracker,
		ProjectID:   "p1",
	})

	relay.Bind(func(msg tea.Msg) {
		h.model.Update(msg)
	})

	// Pump in a window size and the initial node list the way the
	// program would.
	h.model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.load(t)
	return h
}

// load runs the node fetch command synchronously.
func (h *testHarness) load(t *testing.T) {
	t.Helper()
	msg := h.model.loadNodesCmd()()
	loaded, ok := msg.(nodesLoadedMsg)
	if !ok {
		t.Fatalf("loadNodesCmd returned %#v", msg)
	}
	if loaded.err != nil {
		t.Fatalf("load error: %v", loaded.err)
	}
	h.model.Update(loaded)
}

// press sends a key message through Update and runs any returned command
// synchronously, feeding its message back in.
func (h *testHarness) press(t *testing.T, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := h.model.Update(msg)
	h.run(t, cmd)
}

func (h *testHarness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		_, next := h.model.Update(msg)
		h.run(t, next)
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func (h *testHarness) typeText(t *testing.T, text string) {
	t.Helper()
	for _, r := range text {
		h.press(t, keyRune(r))
	}
}

func descKey(nodeID string) editing.Key {
	return editing.NewKey(nodeID, api.FieldDescription)
}

// =============================================================================
// Model Tests
// =============================================================================

func TestModel_LoadSeedsBaselines(t *testing.T) {
	h := newTestHarness(t)

	if got := h.store.BaselineFor(descKey("n1")); got != "Hello" {
		t.Errorf("baseline = %q, want the loaded value", got)
	}
	if got := h.model.descInput.Value(); got != "Hello" {
		t.Errorf("description widget = %q, want the loaded value", got)
	}
}

func TestModel_TypingBuffersInStore(t *testing.T) {
	h := newTestHarness(t)

	h.press(t, keyRune('e')) // enter description editor
	if h.model.mode != "edit" {
		t.Fatalf("mode = %q after edit key, want edit", h.model.mode)
	}

	h.typeText(t, " world")

	if !h.store.IsActive(descKey("n1")) {
		t.Fatal("no session while typing")
	}
	if got := h.store.Get(descKey("n1"), ""); got != "Hello world" {
		t.Errorf("buffered = %q, want %q", got, "Hello world")
	}
	// Nothing saved yet.
	if saves := h.backend.savedFields(); len(saves) != 0 {
		t.Errorf("saves = %v before any commit", saves)
	}
}

func TestModel_CommitOnCtrlS(t *testing.T) {
	h := newTestHarness(t)

	h.press(t, keyRune('e'))
	h.typeText(t, " world")
	h.press(t, tea.KeyMsg{Type: tea.KeyCtrlS})

	saves := h.backend.savedFields()
	if len(saves) != 1 || saves[0]["description"] != "Hello world" {
		t.Fatalf("saves = %v, want one description save", saves)
	}
	if h.store.IsActive(descKey("n1")) {
		t.Error("session still active after commit")
	}
	if got := h.store.BaselineFor(descKey("n1")); got != "Hello world" {
		t.Errorf("baseline = %q, want committed value", got)
	}
	if h.model.mode != "edit" {
		t.Error("saving should not leave edit mode")
	}
}

func TestModel_EscapeDiscardsAndRestoresWidget(t *testing.T) {
	h := newTestHarness(t)

	h.press(t, keyRune('e'))
	h.typeText(t, " world")
	h.press(t, tea.KeyMsg{Type: tea.KeyEsc})

	if h.model.mode != "browse" {
		t.Errorf("mode = %q after escape, want browse", h.model.mode)
	}
	if h.store.IsActive(descKey("n1")) {
		t.Error("session survived escape")
	}
	if got := h.model.descInput.Value(); got != "Hello" {
		t.Errorf("widget = %q after escape, want the baseline", got)
	}
	if saves := h.backend.savedFields(); len(saves) != 0 {
		t.Errorf("saves = %v, escape must not hit the network", saves)
	}
}

func TestModel_SelectionRoundTripKeepsBuffer(t *testing.T) {
	h := newTestHarness(t)

	h.press(t, keyRune('e'))
	h.typeText(t, " world")
	h.press(t, tea.KeyMsg{Type: tea.KeyEsc}) // back to browse, buffer gone

	// Fresh edit, then wander off without committing via blur-less path:
	// escape cancels, so instead simulate browsing with a live session by
	// editing and leaving edit mode through a commit failure-free route.
	h.press(t, keyRune('e'))
	h.typeText(t, " again")
	h.model.leaveEdit()

	h.press(t, keyRune('j')) // to n2
	if got := h.model.descInput.Value(); got != "" {
		t.Errorf("widget = %q on n2, want its empty description", got)
	}
	h.press(t, keyRune('k')) // back to n1

	if got := h.model.descInput.Value(); got != "Hello again" {
		t.Errorf("widget = %q after round trip, want the buffered edit", got)
	}
}

func TestModel_BlurTriggersTracker(t *testing.T) {
	h := newTestHarness(t)

	h.press(t, keyRune('e'))
	h.typeText(t, "!")
	h.press(t, tea.KeyMsg{Type: tea.KeyTab}) // switch to title pane

	if len(h.blurred) != 1 || h.blurred[0] != descKey("n1") {
		t.Errorf("blurred = %v, want the description key", h.blurred)
	}
	if h.model.focused != paneTitle {
		t.Error("focus did not move to the title pane")
	}
}

func TestModel_ServerValueWhileBrowsing(t *testing.T) {
	h := newTestHarness(t)

	h.model.Update(applyContentMsg{key: descKey("n1"), value: "refreshed"})

	if got := h.model.nodes[0].Description; got != "refreshed" {
		t.Errorf("node copy = %q, want the server value", got)
	}
	if got := h.model.descInput.Value(); got != "refreshed" {
		t.Errorf("widget = %q, want the server value", got)
	}
}

func TestModel_StaleServerValueWhileEditing(t *testing.T) {
	h := newTestHarness(t)

	h.press(t, keyRune('e'))
	h.typeText(t, "X")

	// A refresh approved before the session started can still be queued
	// behind the keystrokes; delivering it now must not reach the
	// widget or the node copy.
	h.model.Update(applyContentMsg{key: descKey("n1"), value: "server overwrite"})

	if got := h.model.descInput.Value(); got != "HelloX" {
		t.Errorf("widget = %q mid-edit, want the buffered %q", got, "HelloX")
	}
	if got := h.model.nodes[0].Description; got != "Hello" {
		t.Errorf("node copy = %q, want untouched while a session is active", got)
	}

	h.typeText(t, "Y")
	if got := h.store.Get(descKey("n1"), ""); got != "HelloXY" {
		t.Errorf("buffered = %q after the next keystroke, want %q", got, "HelloXY")
	}
}

func TestModel_CommitErrorShowsAndRetains(t *testing.T) {
	h := newTestHarness(t)

	h.press(t, keyRune('e'))
	h.typeText(t, "!")

	err := errors.NewEditError("failed to persist buffered value", errors.ErrNetwork).
		WithRetryable(true)
	h.model.Update(commitResultMsg{key: descKey("n1"), err: err})

	if h.model.errLine == "" {
		t.Error("commit failure left no visible error")
	}

	// Superseded outcomes stay quiet.
	h.model.errLine = ""
	superseded := errors.NewEditError("commit superseded by a newer commit", errors.ErrCommitSuperseded)
	h.model.Update(commitResultMsg{key: descKey("n1"), err: superseded})
	if h.model.errLine != "" {
		t.Errorf("errLine = %q for a superseded commit, want empty", h.model.errLine)
	}
}

func TestModel_CycleStatus(t *testing.T) {
	h := newTestHarness(t)

	h.press(t, keyRune('s'))

	saves := h.backend.savedFields()
	if len(saves) != 1 || saves[0]["status"] != "SUCCESS" {
		t.Fatalf("saves = %v, want status advanced from IN_PROGRESS to SUCCESS", saves)
	}
	if h.model.nodes[0].Status != api.StatusSuccess {
		t.Errorf("node status = %v, want StatusSuccess", h.model.nodes[0].Status)
	}
}

func TestModel_ViewRendersNodes(t *testing.T) {
	h := newTestHarness(t)

	view := h.model.View()
	if !strings.Contains(view, "Recon") {
		t.Error("view does not show the node titles")
	}
	if !strings.Contains(view, "BROWSE") {
		t.Error("view does not show the mode")
	}
}

func TestModel_SidebarTruncatesWideTitles(t *testing.T) {
	h := newTestHarness(t)
	h.model.nodes[0].Title = strings.Repeat("п", 40)

	out := h.model.renderSidebar()
	if !utf8.ValidString(out) {
		t.Error("sidebar contains invalid UTF-8 after truncation")
	}
	if !strings.Contains(out, "…") {
		t.Error("long title was not truncated")
	}
}

func TestUserMessage(t *testing.T) {
	if got := userMessage(nil); got != "" {
		t.Errorf("userMessage(nil) = %q", got)
	}
	auth := errors.NewGatewayError("rejected", errors.ErrAuthRequired)
	if got := userMessage(auth); !strings.Contains(got, "authentication") {
		t.Errorf("userMessage(auth) = %q", got)
	}
	if got := userMessage(context.Canceled); got != "request failed; see log for details" {
		t.Errorf("userMessage(plain) = %q", got)
	}
}
