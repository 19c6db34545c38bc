package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/beocaca/pomo.do/internal/timer"
)

type settingsModel struct {
	session *timer.Session
	width   int
	height  int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	name       *string
	work       *string
	shortBreak *string
	longBreak  *string
}

func newSettingsModel(session *timer.Session) settingsModel {
	name, work, short, long := "", "", "", ""
	return settingsModel{
		session:    session,
		name:       &name,
		work:       &work,
		shortBreak: &short,
		longBreak:  &long,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Enter), key.Matches(keyMsg, keys.New):
		return m.showForm()
	case key.Matches(keyMsg, keys.Reset):
		if err := m.session.ResetToDefault(); err != nil {
			return m, errStatus(err)
		}
		return m, func() tea.Msg {
			return statusMsg{text: "Timer restored to defaults"}
		}
	}
	return m, nil
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	config := m.session.Config()
	*m.name = config.Name
	*m.work = strconv.Itoa(config.Work)
	*m.shortBreak = strconv.Itoa(config.ShortBreak)
	*m.longBreak = strconv.Itoa(config.LongBreak)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Preset name").Value(m.name),
			huh.NewInput().Title("Work (min)").Value(m.work),
			huh.NewInput().Title("Short break (min)").Value(m.shortBreak),
			huh.NewInput().Title("Long break (min)").Value(m.longBreak),
		).Title("Timer"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		config := timer.Config{
			Name:       *m.name,
			Work:       atoiOrZero(*m.work),
			ShortBreak: atoiOrZero(*m.shortBreak),
			LongBreak:  atoiOrZero(*m.longBreak),
		}
		if err := m.session.LoadConfig(config); err != nil {
			return m, errStatus(err)
		}
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Timer '%s' saved", config.Name)}
		}
	}

	return m, cmd
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", m.form.View()),
		)
	}

	config := m.session.Config()
	rows := []string{
		titleStyle.Render("Settings"),
		"",
		m.renderValue("Preset", config.Name),
		m.renderValue("Work", fmt.Sprintf("%d min", config.Work)),
		m.renderValue("Short break", fmt.Sprintf("%d min", config.ShortBreak)),
		m.renderValue("Long break", fmt.Sprintf("%d min", config.LongBreak)),
		"",
		mutedStyle.Render("enter: edit  r: reset to defaults"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m settingsModel) renderValue(label, value string) string {
	return fmt.Sprintf("  %s %s",
		lipgloss.NewStyle().Width(16).Render(label),
		highlightStyle.Render(value),
	)
}
