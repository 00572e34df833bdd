package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the default key bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode]*ModeBindings{
			ModeBrowse: defaultBrowseBindings(),
			ModeEdit:   defaultEditBindings(),
		},
	}
}

func defaultBrowseBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeBrowse,
		Bindings: []KeyBinding{
			// Node navigation
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdNextNode, Description: "Next node", Category: "Navigation"},
			{KeyType: tea.KeyDown, Command: CmdNextNode, Description: "Next node", Category: "Navigation"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdPrevNode, Description: "Previous node", Category: "Navigation"},
			{KeyType: tea.KeyUp, Command: CmdPrevNode, Description: "Previous node", Category: "Navigation"},

			// Editing entry
			{KeyType: tea.KeyRunes, Rune: 't', Command: CmdEditTitle, Description: "Edit title", Category: "Editing"},
			{KeyType: tea.KeyRunes, Rune: 'e', Command: CmdEditDescription, Description: "Edit description", Category: "Editing"},
			{KeyType: tea.KeyEnter, Command: CmdEditDescription, Description: "Edit description", Category: "Editing"},
			{KeyType: tea.KeyRunes, Rune: 's', Command: CmdCycleStatus, Description: "Cycle node status", Category: "Editing"},

			// Data
			{KeyType: tea.KeyRunes, Rune: 'r', Command: CmdRefresh, Description: "Reload nodes", Category: "Data"},
			{KeyType: tea.KeyRunes, Rune: 'R', Command: CmdReconnect, Description: "Reconnect notifications", Category: "Data"},

			// Application
			{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "Toggle help", Category: "Application"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultEditBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeEdit,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyCtrlS, Command: CmdCommit, Description: "Save field", Category: "Editing"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "Discard edits", Category: "Editing"},
			{KeyType: tea.KeyTab, Command: CmdSwitchPane, Description: "Switch editor", Category: "Editing"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}
