package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/beocaca/pomo.do/internal/timer"
)

const workIntervalsPerCycle = 4

type pomodoroModel struct {
	session *timer.Session
	width   int
	height  int
}

func newPomodoroModel(session *timer.Session) pomodoroModel {
	return pomodoroModel{session: session}
}

func (m *pomodoroModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Start):
		m.session.ToggleRunning()
	case key.Matches(keyMsg, keys.Skip):
		// Skip the rest of a break and get back to work.
		if m.session.Mode() != timer.ModeWork {
			m.session.SetMode(timer.ModeWork)
		}
	case key.Matches(keyMsg, keys.Left):
		m.session.SetMode(previousMode(m.session.Mode()))
	case key.Matches(keyMsg, keys.Right):
		m.session.SetMode(nextMode(m.session.Mode()))
	}
	return m, nil
}

func nextMode(m timer.Mode) timer.Mode {
	switch m {
	case timer.ModeWork:
		return timer.ModeShortBreak
	case timer.ModeShortBreak:
		return timer.ModeLongBreak
	default:
		return timer.ModeWork
	}
}

func previousMode(m timer.Mode) timer.Mode {
	switch m {
	case timer.ModeWork:
		return timer.ModeLongBreak
	case timer.ModeShortBreak:
		return timer.ModeWork
	default:
		return timer.ModeShortBreak
	}
}

func (m pomodoroModel) view() string {
	w := m.width - 4
	session := m.session

	var modeStyle lipgloss.Style
	switch session.Mode() {
	case timer.ModeWork:
		modeStyle = accentStyle
	case timer.ModeShortBreak:
		modeStyle = successStyle
	case timer.ModeLongBreak:
		modeStyle = highlightStyle
	}

	display := timerStyle.Width(w - 6).Render(session.Display())
	modeLabel := modeStyle.Bold(true).Render(strings.ToUpper(session.Mode().String()))

	state := mutedStyle.Render("paused · press s to start")
	if session.Running() {
		state = successStyle.Render("running")
	}

	configLabel := mutedStyle.Render(fmt.Sprintf("%s · %d/%d/%d min",
		session.Config().Name,
		session.Config().Work,
		session.Config().ShortBreak,
		session.Config().LongBreak,
	))

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Pomodoro"),
		"",
		display,
		modeLabel,
		"",
		m.renderCycle(),
		state,
		"",
		configLabel,
	)

	controls := mutedStyle.Render("s: start/stop  space: skip break  ←/→: switch mode")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (m pomodoroModel) renderCycle() string {
	completed := m.session.CompletedWorkIntervals()
	var parts []string
	for i := 0; i < workIntervalsPerCycle; i++ {
		switch {
		case i < completed:
			parts = append(parts, successStyle.Render("●"))
		case i == completed && m.session.Mode() == timer.ModeWork:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", completed, workIntervalsPerCycle))
	return strings.Join(parts, " ") + counter
}
