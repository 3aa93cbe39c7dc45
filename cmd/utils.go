package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// launchViewer starts the interactive preview over whatever the session
// currently has loaded.
func launchViewer(name string) error {
	m := newViewModel(name)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running viewer: %w", err)
	}
	return nil
}
