// Package styles defines the lipgloss styling for the TUI. A Theme
// bundles every style the panels need so rendering code never touches
// raw colors.
package styles

import "github.com/charmbracelet/lipgloss"

// palette is the set of colors a theme is built from.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	muted     lipgloss.Color
	surface   lipgloss.Color
	danger    lipgloss.Color
	warning   lipgloss.Color
	success   lipgloss.Color
}

var palettes = map[string]palette{
	"default": {
		primary:   lipgloss.Color("135"), // purple
		secondary: lipgloss.Color("69"),  // blue
		muted:     lipgloss.Color("243"),
		surface:   lipgloss.Color("236"),
		danger:    lipgloss.Color("203"),
		warning:   lipgloss.Color("214"),
		success:   lipgloss.Color("78"),
	},
	"dark": {
		primary:   lipgloss.Color("39"),
		secondary: lipgloss.Color("75"),
		muted:     lipgloss.Color("240"),
		surface:   lipgloss.Color("234"),
		danger:    lipgloss.Color("160"),
		warning:   lipgloss.Color("178"),
		success:   lipgloss.Color("70"),
	},
	"light": {
		primary:   lipgloss.Color("55"),
		secondary: lipgloss.Color("25"),
		muted:     lipgloss.Color("245"),
		surface:   lipgloss.Color("254"),
		danger:    lipgloss.Color("124"),
		warning:   lipgloss.Color("130"),
		success:   lipgloss.Color("28"),
	},
}

// Theme holds every style the TUI renders with.
type Theme struct {
	Name string

	// Sidebar
	Sidebar      lipgloss.Style
	NodeRow      lipgloss.Style
	NodeSelected lipgloss.Style

	// Editor panes
	PaneTitle   lipgloss.Style
	PaneFocused lipgloss.Style
	PaneBlurred lipgloss.Style

	// Chrome
	StatusBar lipgloss.Style
	Help      lipgloss.Style

	// Semantics
	Editing lipgloss.Style // unsaved-edit indicator
	Error   lipgloss.Style
	Muted   lipgloss.Style

	// Node status badges, keyed by wire value
	StatusBadges map[string]lipgloss.Style
}

// NewTheme builds the Theme for the named palette. Unknown names fall
// back to the default palette so a stale config value degrades instead
// of failing.
func NewTheme(name string) *Theme {
	p, ok := palettes[name]
	if !ok {
		name = "default"
		p = palettes[name]
	}

	border := lipgloss.RoundedBorder()

	return &Theme{
		Name: name,

		Sidebar: lipgloss.NewStyle().
			Border(border, false, true, false, false).
			BorderForeground(p.muted).
			PaddingRight(1),
		NodeRow: lipgloss.NewStyle().
			Foreground(p.secondary),
		NodeSelected: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),

		PaneTitle: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),
		PaneFocused: lipgloss.NewStyle().
			Border(border).
			BorderForeground(p.primary).
			Padding(0, 1),
		PaneBlurred: lipgloss.NewStyle().
			Border(border).
			BorderForeground(p.muted).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Background(p.surface).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(p.muted),

		Editing: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(p.danger),
		Muted: lipgloss.NewStyle().
			Foreground(p.muted),

		StatusBadges: map[string]lipgloss.Style{
			"NOT_STARTED":    lipgloss.NewStyle().Foreground(p.muted),
			"IN_PROGRESS":    lipgloss.NewStyle().Foreground(p.warning),
			"SUCCESS":        lipgloss.NewStyle().Foreground(p.success),
			"FAILED":         lipgloss.NewStyle().Foreground(p.danger),
			"NOT_APPLICABLE": lipgloss.NewStyle().Foreground(p.muted).Strikethrough(true),
		},
	}
}

// StatusBadge returns the style for a node status wire value.
func (t *Theme) StatusBadge(status string) lipgloss.Style {
	if style, ok := t.StatusBadges[status]; ok {
		return style
	}
	return t.Muted
}
