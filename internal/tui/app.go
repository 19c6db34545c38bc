package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/beocaca/pomo.do/internal/chore"
	"github.com/beocaca/pomo.do/internal/export"
	"github.com/beocaca/pomo.do/internal/timer"
)

// App is the root Bubble Tea model. It owns the one-second tick loop that
// drives the timer session; the session itself ignores ticks while stopped.
type App struct {
	service *chore.Service
	session *timer.Session
	sink    *statusSink
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	tasks    tasksModel
	projects projectsModel
	pomodoro pomodoroModel
	stats    statsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(service *chore.Service, session *timer.Session, sink *statusSink) App {
	h := help.New()
	h.ShowAll = false

	return App{
		service:  service,
		session:  session,
		sink:     sink,
		tasks:    newTasksModel(service),
		projects: newProjectsModel(service),
		pomodoro: newPomodoroModel(session),
		stats:    newStatsModel(service),
		settings: newSettingsModel(session),
		help:     h,
	}
}

// NewSink builds the notifier handed to chore.NewService before the App
// exists; pass the same pointer to NewApp.
func NewSink() *statusSink {
	return &statusSink{}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Adopt whatever the collection managers notified since last cycle.
	if a.sink != nil && a.sink.last != "" {
		a.status = a.sink.last
		a.statusErr = a.sink.isError
		a.sink.last = ""
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.tasks.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTasks
			return a.refreshCurrentView()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewProjects
			return a.refreshCurrentView()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewPomodoro
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewStats
			return a.refreshCurrentView()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 5
			return a.refreshCurrentView()
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.session.Running() {
			a.session.Tick()
			cmds = append(cmds, tea.SetWindowTitle("pomo.do "+a.session.Display()))
			if a.session.Remaining() == 0 {
				a.session.OnIntervalComplete()
				a.status = intervalBanner(a.session.Mode())
				a.statusErr = false
			}
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// intervalBanner is the status line shown when a countdown completes and
// the next mode is entered.
func intervalBanner(next timer.Mode) string {
	if next == timer.ModeWork {
		return "Back to work! \a"
	}
	return "Break time! \a"
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewProjects:
		return a.projects.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTasks:
		a.tasks, cmd = a.tasks.refresh()
	case viewProjects:
		a.projects, cmd = a.projects.refresh()
	case viewStats:
		a.stats, cmd = a.stats.refresh()
	}
	return a, cmd
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTasks:
		content = a.tasks.view()
	case viewProjects:
		content = a.projects.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pomo.do")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := a.status
	statusErr := a.statusErr
	if a.sink != nil && a.sink.last != "" {
		status = a.sink.last
		statusErr = a.sink.isError
	}
	styledStatus := ""
	if status != "" {
		if statusErr {
			styledStatus = errorStyle.Render(" " + status)
		} else {
			styledStatus = mutedStyle.Render(" " + status)
		}
	}

	// Countdown indicator in footer
	timerInfo := ""
	if a.session.Running() {
		timerInfo = successStyle.Render(fmt.Sprintf(" ● %s %s", a.session.Display(), a.session.Mode()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + styledStatus

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	stats := a.service.Stats()
	tasks := a.service.Tasks().Items()

	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("pomodo-export-%s.csv", dateStr))
			if err := export.ToCSV(stats, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("pomodo-export-%s.json", dateStr))
			if err := export.ToJSON(stats, tasks, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
