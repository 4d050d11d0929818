// Package styles holds the colour theme and the shared lipgloss styles
// for the chat interface.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// The palette leans on paper-and-ink tones: a warm amber accent for
// titles and the question prompt, teal for source and chunk labels, and
// a dim slate for the trace chrome so the document text stays in front.
const (
	colorAmber   = lipgloss.Color("#E0AF68")
	colorTeal    = lipgloss.Color("#2AC3DE")
	colorInk     = lipgloss.Color("#1A1B26")
	colorPaper   = lipgloss.Color("#C0CAF5")
	colorSlate   = lipgloss.Color("#565F89")
	colorMoss    = lipgloss.Color("#9ECE6A")
	colorHoney   = lipgloss.Color("#FF9E64")
	colorRose    = lipgloss.Color("#F7768E")
	colorOutline = lipgloss.Color("#3B4261")
	colorFooter  = lipgloss.Color("#16161E")
)

// Theme is the colour palette behind the styles. Views never read it
// directly; they go through Styles.
type Theme struct {
	// Primary colours the title and the question prompt.
	Primary lipgloss.Color

	// Secondary colours chunk IDs and source labels.
	Secondary lipgloss.Color

	// Background and Foreground are the base canvas colours.
	Background lipgloss.Color
	Foreground lipgloss.Color

	// Muted is for trace chrome and secondary annotations.
	Muted lipgloss.Color

	// Success, Warning and Error colour outcome lines: answers that
	// resolved, unresolved chunk warnings, failed queries.
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Border outlines the input field and the preview pane.
	Border lipgloss.Color
}

// DefaultTheme returns the stock tracedoc palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    colorAmber,
		Secondary:  colorTeal,
		Background: colorInk,
		Foreground: colorPaper,
		Muted:      colorSlate,
		Success:    colorMoss,
		Warning:    colorHoney,
		Error:      colorRose,
		Border:     colorOutline,
	}
}

// Styles are the pre-built lipgloss styles the views share. One Styles
// value is built at startup and threaded through every component.
type Styles struct {
	theme *Theme

	// Title renders the app header and the question prompt label.
	Title lipgloss.Style

	// Subtitle renders speaker labels and page headings.
	Subtitle lipgloss.Style

	// Normal renders answer and document text.
	Normal lipgloss.Style

	// Muted renders trace chrome, source lists and hints.
	Muted lipgloss.Style

	// Selected highlights the chunk under the cursor in the preview.
	Selected lipgloss.Style

	// Error, Success and Warning render outcome lines.
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// InputField frames the question input.
	InputField lipgloss.Style

	// StatusBar renders the footer line.
	StatusBar lipgloss.Style

	// Help renders the key hints in the footer.
	Help lipgloss.Style

	// Border frames the document preview pane.
	Border lipgloss.Style
}

// NewStyles builds the style set from a theme. A nil theme gets the
// default palette.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	base := lipgloss.NewStyle()
	return &Styles{
		theme: theme,

		Title:    base.Bold(true).Foreground(theme.Primary),
		Subtitle: base.Bold(true).Foreground(theme.Secondary),
		Normal:   base.Foreground(theme.Foreground),
		Muted:    base.Foreground(theme.Muted),

		Selected: base.Bold(true).
			Foreground(theme.Background).
			Background(theme.Secondary),

		Error:   base.Foreground(theme.Error),
		Success: base.Foreground(theme.Success),
		Warning: base.Foreground(theme.Warning),

		InputField: base.
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: base.
			Foreground(theme.Muted).
			Background(colorFooter).
			Padding(0, 1),

		Help: base.Foreground(theme.Muted).Italic(true),

		Border: base.
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette these styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
