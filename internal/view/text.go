package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// Text writes the page for a terminal.
func Text(w io.Writer, m Model) error {
	lines := []string{
		headerStyle.Render(m.Title),
		mutedStyle.Render(m.Bio),
	}
	if m.ShowConnect {
		lines = append(lines, mutedStyle.Render("No wallet connected."))
	}
	if m.Summary != "" {
		lines = append(lines, summaryStyle.Render(m.Summary))
	}
	for _, in := range m.Interactions {
		card := fmt.Sprintf("Address: %s\nTime: %s\nType: %s\nMessage: %s", in.Address, in.Time, in.Type, in.Message)
		lines = append(lines, cardStyle.Render(card))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
