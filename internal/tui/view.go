package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pwnflow/pwnflow-tui/internal/api"
	"github.com/pwnflow/pwnflow-tui/internal/editing"
	"github.com/pwnflow/pwnflow-tui/internal/tui/keymap"
)

// View renders the whole screen.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(),
		m.renderEditors(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.renderStatusBar(),
	)
}

// renderSidebar renders the node list with status badges and the
// unsaved-edit indicator.
func (m *Model) renderSidebar() string {
	width := m.cfg.TUI.SidebarWidth

	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Nodes"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.theme.Muted.Render("loading..."))
	} else if len(m.nodes) == 0 {
		b.WriteString(m.theme.Muted.Render("no nodes"))
	}

	for i, node := range m.nodes {
		style := m.theme.NodeRow
		cursor := "  "
		if i == m.selected {
			style = m.theme.NodeSelected
			cursor = "> "
		}

		indicator := " "
		if m.nodeHasEdits(node.ID) && m.cfg.TUI.ShowEditIndicator {
			indicator = m.theme.Editing.Render("●")
		}

		badge := m.theme.StatusBadge(node.Status.String()).Render(statusGlyph(node.Status))

		title := node.Title
		if maxTitle := width - 8; maxTitle > 0 {
			title = runewidth.Truncate(title, maxTitle, "…")
		}

		b.WriteString(fmt.Sprintf("%s%s %s %s\n", cursor, badge, style.Render(title), indicator))
	}

	return m.theme.Sidebar.Width(width).Render(b.String())
}

// renderEditors renders the title and description panes for the
// selected node.
func (m *Model) renderEditors() string {
	node := m.selectedNode()
	if node == nil {
		return m.theme.Muted.Render("select a node")
	}

	titleStyle, descStyle := m.theme.PaneBlurred, m.theme.PaneBlurred
	if m.mode == keymap.ModeEdit {
		if m.focused == paneTitle {
			titleStyle = m.theme.PaneFocused
		} else {
			descStyle = m.theme.PaneFocused
		}
	}

	titlePane := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PaneTitle.Render("Title"+m.paneSuffix(api.FieldTitle)),
		titleStyle.Render(m.titleInput.View()),
	)
	descPane := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PaneTitle.Render("Description"+m.paneSuffix(api.FieldDescription)),
		descStyle.Render(m.descInput.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left, titlePane, descPane)
}

// paneSuffix marks a pane whose field has unsaved or failed edits.
func (m *Model) paneSuffix(field string) string {
	node := m.selectedNode()
	if node == nil {
		return ""
	}
	key := editing.NewKey(node.ID, field)
	if _, pending := m.store.ErrorFor(key); pending {
		return " " + m.theme.Error.Render("(save failed)")
	}
	if m.store.IsActive(key) && m.cfg.TUI.ShowEditIndicator {
		return " " + m.theme.Editing.Render("●")
	}
	return ""
}

// renderStatusBar renders the bottom line: mode, messages, key hints.
func (m *Model) renderStatusBar() string {
	var parts []string

	mode := "BROWSE"
	if m.mode == keymap.ModeEdit {
		mode = "EDIT"
	}
	parts = append(parts, m.theme.PaneTitle.Render(mode))

	if m.watcherDown {
		parts = append(parts, m.theme.Error.Render("notifications down (R to reconnect)"))
	}
	if m.errLine != "" {
		parts = append(parts, m.theme.Error.Render(m.errLine))
	} else if m.statusLine != "" {
		parts = append(parts, m.statusLine)
	}

	hint := "? help"
	if m.mode == keymap.ModeEdit {
		hint = "ctrl+s save · esc discard · tab switch"
	}
	parts = append(parts, m.theme.Help.Render(hint))

	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// renderHelp renders the key binding reference.
func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Key Bindings"))
	b.WriteString("\n\n")

	for _, mode := range []keymap.Mode{keymap.ModeBrowse, keymap.ModeEdit} {
		bindings := m.keymap.Modes[mode]
		if bindings == nil {
			continue
		}
		b.WriteString(m.theme.PaneTitle.Render(strings.ToUpper(string(mode))))
		b.WriteString("\n")
		for _, binding := range bindings.Bindings {
			b.WriteString(fmt.Sprintf("  %-8s %s\n", binding.KeyLabel(), binding.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.Help.Render("press ? to close"))
	return b.String()
}

// nodeHasEdits reports whether any field of the node has a live session.
func (m *Model) nodeHasEdits(nodeID string) bool {
	for _, key := range m.store.ActiveKeys() {
		if key.EntityID == nodeID {
			return true
		}
	}
	return false
}

// statusGlyph is the one-character badge for a node status.
func statusGlyph(status api.Status) string {
	switch status {
	case api.StatusInProgress:
		return "◐"
	case api.StatusSuccess:
		return "✓"
	case api.StatusFailed:
		return "✗"
	case api.StatusNotApplicable:
		return "-"
	default:
		return "○"
	}
}
