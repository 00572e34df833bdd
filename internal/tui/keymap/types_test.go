package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultKeymap_Validate(t *testing.T) {
	if err := DefaultKeymap().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestKeymap_Lookup(t *testing.T) {
	km := DefaultKeymap()

	tests := []struct {
		name    string
		mode    Mode
		msg     tea.KeyMsg
		want    Command
		wantHit bool
	}{
		{"browse j", ModeBrowse, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, CmdNextNode, true},
		{"browse down arrow", ModeBrowse, tea.KeyMsg{Type: tea.KeyDown}, CmdNextNode, true},
		{"browse edit description", ModeBrowse, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}}, CmdEditDescription, true},
		{"browse quit", ModeBrowse, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, CmdQuit, true},
		{"edit ctrl+s", ModeEdit, tea.KeyMsg{Type: tea.KeyCtrlS}, CmdCommit, true},
		{"edit esc", ModeEdit, tea.KeyMsg{Type: tea.KeyEsc}, CmdCancel, true},
		{"edit tab", ModeEdit, tea.KeyMsg{Type: tea.KeyTab}, CmdSwitchPane, true},
		{"edit plain rune falls through", ModeEdit, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, "", false},
		{"browse unbound key", ModeBrowse, tea.KeyMsg{Type: tea.KeyCtrlS}, "", false},
		{"unknown mode", Mode("bogus"), tea.KeyMsg{Type: tea.KeyEsc}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := km.Lookup(tt.mode, tt.msg)
			if hit != tt.wantHit || got != tt.want {
				t.Errorf("Lookup() = (%q, %v), want (%q, %v)", got, hit, tt.want, tt.wantHit)
			}
		})
	}
}

func TestKeymap_ValidateRejectsConflicts(t *testing.T) {
	km := &Keymap{
		Name: "broken",
		Modes: map[Mode]*ModeBindings{
			ModeBrowse: {
				Mode: ModeBrowse,
				Bindings: []KeyBinding{
					{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit},
					{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdRefresh},
				},
			},
		},
	}
	if err := km.Validate(); err == nil {
		t.Error("Validate() accepted a conflicting binding")
	}
}

func TestKeyBinding_KeyLabel(t *testing.T) {
	rune_ := KeyBinding{KeyType: tea.KeyRunes, Rune: 'j'}
	if got := rune_.KeyLabel(); got != "j" {
		t.Errorf("KeyLabel() = %q, want j", got)
	}
	esc := KeyBinding{KeyType: tea.KeyEsc}
	if got := esc.KeyLabel(); got != "esc" {
		t.Errorf("KeyLabel() = %q, want esc", got)
	}
}
