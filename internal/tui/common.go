package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTasks viewState = iota
	viewProjects
	viewPomodoro
	viewStats
	viewSettings
)

var viewNames = []string{"Tasks", "Projects", "Pomodoro", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: err.Error(), isError: true}
	}
}

// statusSink implements chore.Notifier; the footer renders whatever landed
// last. All notifications arrive from the update loop, so no locking.
type statusSink struct {
	last    string
	isError bool
}

func (s *statusSink) Success(message string) {
	s.last = message
	s.isError = false
}

func (s *statusSink) Info(message string) {
	s.last = message
	s.isError = false
}

func (s *statusSink) Error(message string) {
	s.last = message
	s.isError = true
}
