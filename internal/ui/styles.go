package ui

import "github.com/charmbracelet/lipgloss"

// Color palette: one lime accent on grays.
const (
	ColorLime     = "154" // accent (#AFFF00)
	ColorLimeDim  = "106" // dimmed accent for secondary highlights
	ColorWhite    = "255" // headers, selected rows
	ColorGray     = "245" // labels, snippets
	ColorDarkGray = "238" // borders, hints
	ColorRed      = "196" // errors
	ColorYellow   = "220" // warnings, buffer markers
)

// Styles holds every style used by the CLI and the palette.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
	Label   lipgloss.Style

	// Result rendering
	Path     lipgloss.Style
	Location lipgloss.Style
	Snippet  lipgloss.Style
	Buffer   lipgloss.Style
	Score    lipgloss.Style

	// Palette
	Prompt   lipgloss.Style
	Mode     lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),

		Path:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Location: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Snippet:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Buffer:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Score:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),

		Prompt:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Mode:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Border:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:   plain,
		Success:  plain,
		Warning:  plain,
		Error:    plain,
		Dim:      plain,
		Label:    plain,
		Path:     plain,
		Location: plain,
		Snippet:  plain,
		Buffer:   plain,
		Score:    plain,
		Prompt:   plain,
		Mode:     plain,
		Selected: plain,
		Border:   plain,
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
