package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header     lipgloss.Style
	Name       lipgloss.Style
	Unnamed    lipgloss.Style
	Conditions lipgloss.Style
	Accessions lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	Muted      lipgloss.Style
	Enumerator lipgloss.Style
}

// NewStyles creates styles bound to a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Name:       r.NewStyle().Bold(true),
		Unnamed:    r.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
		Conditions: r.NewStyle().Foreground(lipgloss.Color("6")),
		Accessions: r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:    r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:    r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:      r.NewStyle().Foreground(lipgloss.Color("9")),
		Muted:      r.NewStyle().Foreground(lipgloss.Color("8")),
		Enumerator: r.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1),
	}
}
