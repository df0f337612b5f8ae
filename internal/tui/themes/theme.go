// Package themes holds the color schemes of the chat TUI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Italic        lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	UserBubble    lipgloss.Style
	SystemBubble  lipgloss.Style
	ErrorBubble   lipgloss.Style
	Card          lipgloss.Style
	FocusedCard   lipgloss.Style
	Amount        lipgloss.Style
	Refund        lipgloss.Style
	PageCurrent   lipgloss.Style
	Page          lipgloss.Style
	Marker        lipgloss.Style
	Suggestion    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
}

type palette struct {
	primary, secondary, success, errorColor, info lipgloss.Color
	foreground, subtle, border, muted, surface, onPrimary lipgloss.Color
}

func newTheme(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Secondary:  p.secondary,
		Muted:      p.muted,
		Border:     p.border,
		Foreground: p.foreground,
		Error:      p.errorColor,
		Success:    p.success,

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Italic: lipgloss.NewStyle().
			Italic(true).
			Foreground(p.foreground),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.onPrimary).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(p.border).
			Foreground(p.foreground),

		// Thread
		UserBubble: lipgloss.NewStyle().
			Foreground(p.onPrimary).
			Background(p.primary).
			Padding(0, 1),
		SystemBubble: lipgloss.NewStyle().
			Foreground(p.foreground).
			Background(p.surface).
			Padding(0, 1),
		ErrorBubble: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.errorColor).
			Padding(0, 1),
		Suggestion: lipgloss.NewStyle().
			Foreground(p.info).
			Underline(true),

		// Cards
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		FocusedCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),
		Amount: lipgloss.NewStyle().
			Foreground(p.foreground).
			Bold(true),
		Refund: lipgloss.NewStyle().
			Foreground(p.success),
		PageCurrent: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Page: lipgloss.NewStyle().
			Foreground(p.muted),
		Marker: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),

		// Status styles
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    lipgloss.Color("#7c3aed"),
	secondary:  lipgloss.Color("#a78bfa"),
	success:    lipgloss.Color("#10b981"),
	errorColor: lipgloss.Color("#ef4444"),
	info:       lipgloss.Color("#3b82f6"),
	foreground: lipgloss.Color("#fafafa"),
	subtle:     lipgloss.Color("#a3a3a3"),
	border:     lipgloss.Color("#404040"),
	muted:      lipgloss.Color("#737373"),
	surface:    lipgloss.Color("#262626"),
	onPrimary:  lipgloss.Color("#fafafa"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    lipgloss.Color("#cba6f7"),
	secondary:  lipgloss.Color("#f5c2e7"),
	success:    lipgloss.Color("#a6e3a1"),
	errorColor: lipgloss.Color("#f38ba8"),
	info:       lipgloss.Color("#89dceb"),
	foreground: lipgloss.Color("#cdd6f4"),
	subtle:     lipgloss.Color("#a6adc8"),
	border:     lipgloss.Color("#45475a"),
	muted:      lipgloss.Color("#6c7086"),
	surface:    lipgloss.Color("#313244"),
	onPrimary:  lipgloss.Color("#1e1e2e"),
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// CategoryIcons maps card categories to icons.
var CategoryIcons = map[string]string{
	"Groceries":        "🥬",
	"Dining":           "🍜",
	"Department Store": "🏬",
	"Electronics":      "💻",
	"Transport":        "🚆",
	"Travel":           "✈️",
	"Fuel":             "⛽",
	"Books":            "📚",
	"Entertainment":    "🎬",
	"Pharmacy":         "💊",
	"Medical":          "🩺",
	"Utilities":        "💡",
	"Telecom":          "📱",
	"Shopping":         "🛍️",
	"Refunds":          "↩️",
	"More":             "➕",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category string) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "📦"
}
