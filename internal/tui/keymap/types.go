// Package keymap provides key binding definitions and lookup for the TUI.
// Bindings are declared per input mode so the model's Update method can
// translate key presses into named commands instead of switching on raw
// key codes inline.
package keymap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the TUI.
// Different modes have different key bindings active.
type Mode string

const (
	ModeBrowse Mode = "browse" // Navigating the node list
	ModeEdit   Mode = "edit"   // A field editor holds focus
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Browse mode commands
const (
	// Navigation
	CmdNextNode Command = "next_node"
	CmdPrevNode Command = "prev_node"

	// Editing entry
	CmdEditTitle       Command = "edit_title"
	CmdEditDescription Command = "edit_description"
	CmdCycleStatus     Command = "cycle_status"

	// Data
	CmdRefresh   Command = "refresh"
	CmdReconnect Command = "reconnect"

	// Application
	CmdToggleHelp Command = "toggle_help"
	CmdQuit       Command = "quit"
)

// Edit mode commands
const (
	CmdCommit     Command = "commit"      // Persist the buffered value
	CmdCancel     Command = "cancel"      // Discard the buffer, restore baseline
	CmdSwitchPane Command = "switch_pane" // Move focus to the other editor
)

// KeyBinding maps a key press to a command within a mode.
type KeyBinding struct {
	KeyType     tea.KeyType
	Rune        rune // Only meaningful when KeyType is tea.KeyRunes
	Command     Command
	Description string
	Category    string
}

// Matches reports whether the binding matches the key message.
func (b KeyBinding) Matches(msg tea.KeyMsg) bool {
	if msg.Type != b.KeyType {
		return false
	}
	if b.KeyType == tea.KeyRunes {
		return len(msg.Runes) == 1 && msg.Runes[0] == b.Rune
	}
	return true
}

// KeyLabel returns a human-readable label for the binding's key.
func (b KeyBinding) KeyLabel() string {
	if b.KeyType == tea.KeyRunes {
		return string(b.Rune)
	}
	return tea.Key{Type: b.KeyType}.String()
}

// ModeBindings holds all bindings active in one mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// Keymap is the full key binding configuration.
type Keymap struct {
	Name  string
	Modes map[Mode]*ModeBindings
}

// Lookup resolves a key press to a command in the given mode.
func (k *Keymap) Lookup(mode Mode, msg tea.KeyMsg) (Command, bool) {
	bindings, ok := k.Modes[mode]
	if !ok {
		return "", false
	}
	for _, b := range bindings.Bindings {
		if b.Matches(msg) {
			return b.Command, true
		}
	}
	return "", false
}

// Validate checks the keymap for duplicate bindings within a mode.
func (k *Keymap) Validate() error {
	for mode, bindings := range k.Modes {
		seen := make(map[string]Command)
		for _, b := range bindings.Bindings {
			id := fmt.Sprintf("%d:%c", b.KeyType, b.Rune)
			if prev, dup := seen[id]; dup && prev != b.Command {
				return fmt.Errorf("mode %s: key %s bound to both %s and %s",
					mode, b.KeyLabel(), prev, b.Command)
			}
			seen[id] = b.Command
		}
	}
	return nil
}
