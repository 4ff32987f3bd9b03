package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"timepick-cli/internal/session"
)

// Run shows the form full-screen until the user quits.
func Run(dir string, sess *session.Session) error {
	applyThemePreference()
	applyColorProfilePreference()
	m := newAppModel(sess, dir)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
