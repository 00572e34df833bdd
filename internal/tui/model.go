// Package tui implements the terminal interface: a node sidebar, field
// editors for the selected node, and the wiring that routes edits
// through the editing core rather than straight into widget state.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pwnflow/pwnflow-tui/internal/api"
	"github.com/pwnflow/pwnflow-tui/internal/config"
	"github.com/pwnflow/pwnflow-tui/internal/editing"
	"github.com/pwnflow/pwnflow-tui/internal/errors"
	"github.com/pwnflow/pwnflow-tui/internal/logging"
	"github.com/pwnflow/pwnflow-tui/internal/tui/keymap"
	"github.com/pwnflow/pwnflow-tui/internal/tui/styles"
)

// pane identifies one of the field editors.
type pane int

const (
	paneTitle pane = iota
	paneDescription
)

// statusCycle is the order the status key steps through.
var statusCycle = []api.Status{
	api.StatusNotStarted,
	api.StatusInProgress,
	api.StatusSuccess,
	api.StatusFailed,
	api.StatusNotApplicable,
}

// commitRequestMsg asks the model to issue a commit for key. The focus
// tracker's blur callback produces these, possibly from another
// goroutine.
type commitRequestMsg struct {
	key editing.Key
}

// Model is the Bubble Tea model for the whole application.
type Model struct {
	cfg    *config.Config
	logger *logging.Logger
	theme  *styles.Theme
	keymap *keymap.Keymap

	client      *api.Client
	store       *editing.Store
	coordinator *editing.Coordinator
	tracker     *editing.FocusTracker
	codec       editing.Codec

	// reconnect restarts the notification watcher; wired by App.
	reconnect func() tea.Cmd

	projectID string
	nodes     []api.Node
	selected  int

	mode    keymap.Mode
	focused pane

	titleInput textinput.Model
	descInput  textarea.Model

	width  int
	height int

	loading     bool
	showHelp    bool
	watcherDown bool
	statusLine  string
	errLine     string
}

// ModelDeps are the collaborators the model needs.
type ModelDeps struct {
	Config      *config.Config
	Logger      *logging.Logger
	Client      *api.Client
	Store       *editing.Store
	Coordinator *editing.Coordinator
	Tracker     *editing.FocusTracker
	Codec       editing.Codec
	Reconnect   func() tea.Cmd
	ProjectID   string
}

// NewModel creates the TUI model.
func NewModel(deps ModelDeps) *Model {
	title := textinput.New()
	title.Placeholder = "Node title"
	title.CharLimit = 0

	desc := textarea.New()
	desc.Placeholder = "Markdown description"
	desc.CharLimit = 0
	desc.ShowLineNumbers = false

	codec := deps.Codec
	if codec == nil {
		codec = editing.MarkdownCodec{}
	}

	return &Model{
		cfg:         deps.Config,
		logger:      deps.Logger.WithComponent("tui"),
		theme:       styles.NewTheme(deps.Config.TUI.Theme),
		keymap:      keymap.DefaultKeymap(),
		client:      deps.Client,
		store:       deps.Store,
		coordinator: deps.Coordinator,
		tracker:     deps.Tracker,
		codec:       codec,
		reconnect:   deps.Reconnect,
		projectID:   deps.ProjectID,
		mode:        keymap.ModeBrowse,
		titleInput:  title,
		descInput:   desc,
		loading:     true,
	}
}

// Init fetches the node list.
func (m *Model) Init() tea.Cmd {
	return m.loadNodesCmd()
}

// -----------------------------------------------------------------------------
// Keys
// -----------------------------------------------------------------------------

// selectedNode returns the node under the cursor, or nil when the list
// is empty.
func (m *Model) selectedNode() *api.Node {
	if m.selected < 0 || m.selected >= len(m.nodes) {
		return nil
	}
	return &m.nodes[m.selected]
}

// keyFor returns the session key of a pane for the selected node.
func (m *Model) keyFor(p pane) (editing.Key, bool) {
	node := m.selectedNode()
	if node == nil {
		return editing.Key{}, false
	}
	switch p {
	case paneTitle:
		return editing.NewKey(node.ID, api.FieldTitle), true
	default:
		return editing.NewKey(node.ID, api.FieldDescription), true
	}
}

// nodeIndex finds a node by ID.
func (m *Model) nodeIndex(nodeID string) int {
	for i := range m.nodes {
		if m.nodes[i].ID == nodeID {
			return i
		}
	}
	return -1
}

// -----------------------------------------------------------------------------
// Update
// -----------------------------------------------------------------------------

// Update is the single entry point for all state transitions.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case nodesLoadedMsg:
		return m.handleNodesLoaded(msg)

	case commitResultMsg:
		return m.handleCommitResult(msg)

	case statusSavedMsg:
		if msg.err != nil {
			m.errLine = userMessage(msg.err)
			return m, nil
		}
		if i := m.nodeIndex(msg.nodeID); i >= 0 {
			m.nodes[i].Status = msg.status
		}
		m.statusLine = fmt.Sprintf("status → %s", msg.status)
		return m, nil

	case applyContentMsg:
		m.applyServerValue(msg.key, msg.value)
		return m, nil

	case restoreBaselineMsg:
		m.restoreWidget(msg.key, msg.baseline)
		return m, nil

	case commitRequestMsg:
		return m, m.commitCmd(msg.key)

	case nodesChangedMsg:
		return m, m.loadNodesCmd()

	case watcherClosedMsg:
		m.watcherDown = true
		if msg.err != nil {
			m.errLine = "notifications lost: " + userMessage(msg.err)
		} else {
			m.statusLine = "notifications closed"
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, bound := m.keymap.Lookup(m.mode, msg)
	if !bound {
		if m.mode == keymap.ModeEdit {
			return m, m.forwardToEditor(msg)
		}
		return m, nil
	}

	// A keystroke consumes any leftover status chatter.
	m.statusLine = ""

	switch cmd {
	case keymap.CmdQuit:
		return m, tea.Quit

	case keymap.CmdNextNode:
		m.moveSelection(1)
	case keymap.CmdPrevNode:
		m.moveSelection(-1)

	case keymap.CmdEditTitle:
		return m, m.enterEdit(paneTitle)
	case keymap.CmdEditDescription:
		return m, m.enterEdit(paneDescription)

	case keymap.CmdCycleStatus:
		return m, m.cycleStatusCmd()

	case keymap.CmdRefresh:
		m.loading = true
		return m, m.loadNodesCmd()

	case keymap.CmdReconnect:
		if m.reconnect != nil {
			m.watcherDown = false
			m.errLine = ""
			m.statusLine = "reconnecting notifications"
			return m, m.reconnect()
		}

	case keymap.CmdToggleHelp:
		m.showHelp = !m.showHelp

	case keymap.CmdCommit:
		if key, ok := m.keyFor(m.focused); ok {
			return m, m.commitCmd(key)
		}

	case keymap.CmdCancel:
		m.cancelEdit()

	case keymap.CmdSwitchPane:
		return m, m.switchPane()
	}

	return m, nil
}

// forwardToEditor passes a key press to the focused widget and records
// the resulting buffer in the session store.
func (m *Model) forwardToEditor(msg tea.KeyMsg) tea.Cmd {
	key, ok := m.keyFor(m.focused)
	if !ok {
		return nil
	}

	var cmd tea.Cmd
	switch m.focused {
	case paneTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
		m.store.Update(key, m.codec.Encode(m.titleInput.Value()))
	case paneDescription:
		m.descInput, cmd = m.descInput.Update(msg)
		m.store.Update(key, m.codec.Encode(m.descInput.Value()))
	}
	return cmd
}

// moveSelection changes the node cursor and swaps the editors over to
// the newly selected node's content.
func (m *Model) moveSelection(delta int) {
	if len(m.nodes) == 0 {
		return
	}
	next := m.selected + delta
	if next < 0 || next >= len(m.nodes) {
		return
	}
	m.selected = next
	m.syncEditors()
}

// enterEdit focuses a field editor. The widget shows the buffered value
// when a session survives from an earlier visit, the baseline otherwise.
func (m *Model) enterEdit(p pane) tea.Cmd {
	key, ok := m.keyFor(p)
	if !ok {
		return nil
	}

	m.mode = keymap.ModeEdit
	m.focused = p
	m.errLine = ""
	m.syncEditors()

	m.tracker.SetFocus(key)

	switch p {
	case paneTitle:
		m.descInput.Blur()
		return m.titleInput.Focus()
	default:
		m.titleInput.Blur()
		return m.descInput.Focus()
	}
}

// cancelEdit discards the buffer for the focused field and leaves edit
// mode. The session dies first, so the blur that follows has nothing to
// commit.
func (m *Model) cancelEdit() {
	if key, ok := m.keyFor(m.focused); ok {
		m.store.Cancel(key)
	}
	m.leaveEdit()
}

// leaveEdit returns to browse mode and releases focus.
func (m *Model) leaveEdit() {
	m.mode = keymap.ModeBrowse
	m.titleInput.Blur()
	m.descInput.Blur()
	m.tracker.ClearFocus()
}

// switchPane moves focus to the other editor. The focus tracker blurs
// the old key, which triggers its commit when commit-on-blur is on.
func (m *Model) switchPane() tea.Cmd {
	if m.focused == paneTitle {
		return m.enterEdit(paneDescription)
	}
	return m.enterEdit(paneTitle)
}

// -----------------------------------------------------------------------------
// Message handlers
// -----------------------------------------------------------------------------

func (m *Model) handleNodesLoaded(msg nodesLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.errLine = userMessage(msg.err)
		return m, nil
	}

	m.nodes = msg.nodes
	if m.selected >= len(m.nodes) {
		m.selected = 0
	}

	// Seed baselines through the reconciliation path so a load never
	// clobbers a field that is being edited right now.
	for _, node := range m.nodes {
		for _, field := range []string{api.FieldTitle, api.FieldDescription} {
			key := editing.NewKey(node.ID, field)
			value, _ := node.FieldValue(field)
			if !m.store.IsActive(key) {
				m.store.SetBaseline(key, value)
			}
		}
	}

	m.syncEditors()
	m.logger.Debug("nodes loaded", "count", len(m.nodes))
	return m, nil
}

func (m *Model) handleCommitResult(msg commitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, errors.ErrCommitSuperseded) {
			// A newer commit owns the outcome; nothing to report.
			return m, nil
		}
		m.errLine = userMessage(msg.err)
		return m, nil
	}

	if msg.committed {
		m.statusLine = fmt.Sprintf("saved %s", msg.key.FieldID)
		m.errLine = ""
		// Leaving edit mode happens on blur, not on save; update the
		// node copy so the sidebar reflects the committed value.
		if i := m.nodeIndex(msg.key.EntityID); i >= 0 {
			m.setNodeField(i, msg.key.FieldID, m.store.BaselineFor(msg.key))
		}
	}
	return m, nil
}

// applyServerValue pushes an authoritative value into the node copy and,
// when the field is on screen, into the widget. The reconciler approved
// the value against the store it saw, but the message queue may deliver
// it after a session has since started; the session is re-checked here
// so a stale apply never overwrites typing.
func (m *Model) applyServerValue(key editing.Key, value string) {
	if m.store.IsActive(key) {
		return
	}

	if i := m.nodeIndex(key.EntityID); i >= 0 {
		m.setNodeField(i, key.FieldID, value)
	}

	if current, ok := m.keyFor(m.focused); ok && current == key && m.mode == keymap.ModeEdit {
		m.setWidgetContent(key, value)
		return
	}
	m.syncEditors()
}

// restoreWidget reverts a widget after a cancel.
func (m *Model) restoreWidget(key editing.Key, baseline string) {
	if i := m.nodeIndex(key.EntityID); i >= 0 {
		m.setNodeField(i, key.FieldID, baseline)
	}
	m.syncEditors()
}

// setNodeField writes a field value into the node list copy.
func (m *Model) setNodeField(i int, field, value string) {
	switch field {
	case api.FieldTitle:
		m.nodes[i].Title = value
	case api.FieldDescription:
		m.nodes[i].Description = value
	case api.FieldStatus:
		if status, err := api.ParseStatus(value); err == nil {
			m.nodes[i].Status = status
		}
	}
}

// setWidgetContent replaces the content of the widget rendering key.
func (m *Model) setWidgetContent(key editing.Key, value string) {
	doc := m.codec.Decode(value)
	switch key.FieldID {
	case api.FieldTitle:
		m.titleInput.SetValue(doc)
	case api.FieldDescription:
		m.descInput.SetValue(doc)
	}
}

// syncEditors refreshes both widgets for the selected node, preferring
// buffered session values over the node copy so unsaved edits survive
// any re-render or selection round trip.
func (m *Model) syncEditors() {
	node := m.selectedNode()
	if node == nil {
		m.titleInput.SetValue("")
		m.descInput.SetValue("")
		return
	}

	titleKey := editing.NewKey(node.ID, api.FieldTitle)
	descKey := editing.NewKey(node.ID, api.FieldDescription)

	m.titleInput.SetValue(m.codec.Decode(m.store.Get(titleKey, node.Title)))
	m.descInput.SetValue(m.codec.Decode(m.store.Get(descKey, node.Description)))
}

// -----------------------------------------------------------------------------
// Layout
// -----------------------------------------------------------------------------

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	sidebar := m.cfg.TUI.SidebarWidth
	editorWidth := width - sidebar - 6
	if editorWidth < 20 {
		editorWidth = 20
	}

	m.titleInput.Width = editorWidth
	m.descInput.SetWidth(editorWidth)

	descHeight := height - 10
	if descHeight < 3 {
		descHeight = 3
	}
	m.descInput.SetHeight(descHeight)
}
