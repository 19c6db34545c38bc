package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/beocaca/pomo.do/internal/api"
	"github.com/beocaca/pomo.do/internal/chore"
)

type tasksModel struct {
	service *chore.Service
	width   int
	height  int

	cursor int

	formActive bool
	form       *huh.Form
	editID     int64 // 0 while the form creates a new task

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formEstimated   *string
	formTags        *string
}

func newTasksModel(service *chore.Service) tasksModel {
	title, description, estimated, tags := "", "", "1", ""
	return tasksModel{
		service:         service,
		formTitle:       &title,
		formDescription: &description,
		formEstimated:   &estimated,
		formTags:        &tags,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) collection() *chore.Collection[api.Task] {
	return m.service.Tasks()
}

func (m tasksModel) refresh() (tasksModel, tea.Cmd) {
	if err := m.collection().FetchPage(context.Background()); err != nil {
		return m, errStatus(err)
	}
	m.clampCursor()
	return m, nil
}

func (m *tasksModel) clampCursor() {
	if n := len(m.collection().Items()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	tasks := m.collection()
	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(tasks.Items())-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Left):
		before := tasks.Page()
		tasks.PreviousPage()
		if tasks.Page() != before {
			return m.refresh()
		}
	case key.Matches(keyMsg, keys.Right):
		before := tasks.Page()
		tasks.NextPage()
		if tasks.Page() != before {
			return m.refresh()
		}
	case key.Matches(keyMsg, keys.New):
		return m.showNewTaskForm()
	case key.Matches(keyMsg, keys.Edit):
		if len(tasks.Items()) > 0 {
			return m.showEditTaskForm(tasks.Items()[m.cursor])
		}
	case key.Matches(keyMsg, keys.Delete):
		if len(tasks.Items()) > 0 {
			id := tasks.Items()[m.cursor].ID
			if err := m.service.DeleteTask(context.Background(), id); err != nil {
				return m, errStatus(err)
			}
			m.clampCursor()
		}
	case key.Matches(keyMsg, keys.Done):
		if len(tasks.Items()) > 0 {
			id := tasks.Items()[m.cursor].ID
			if err := m.service.ToggleTaskDone(context.Background(), id); err != nil {
				return m, errStatus(err)
			}
		}
	case key.Matches(keyMsg, keys.Current), key.Matches(keyMsg, keys.Enter):
		if len(tasks.Items()) > 0 {
			task := tasks.Items()[m.cursor]
			if err := m.service.SetCurrentTask(context.Background(), task.ID); err != nil {
				return m, errStatus(err)
			}
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Focusing '%s'", task.Title)}
			}
		}
	}
	return m, nil
}

func (m tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	m.editID = 0
	*m.formTitle = ""
	*m.formDescription = ""
	*m.formEstimated = "1"
	*m.formTags = ""
	return m.openForm()
}

func (m tasksModel) showEditTaskForm(task api.Task) (tasksModel, tea.Cmd) {
	m.editID = task.ID
	*m.formTitle = task.Title
	*m.formDescription = task.Description
	*m.formEstimated = strconv.Itoa(task.Estimated)
	names := make([]string, len(task.Tags))
	for i, tag := range task.Tags {
		names[i] = tag.Name
	}
	*m.formTags = strings.Join(names, ", ")
	return m.openForm()
}

func (m tasksModel) openForm() (tasksModel, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Description").Value(m.formDescription),
			huh.NewInput().Title("Estimated pomodoros").Value(m.formEstimated),
			huh.NewInput().Title("Tags (comma-separated)").Value(m.formTags),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		if *m.formTitle == "" {
			return m, nil
		}
		estimated, _ := strconv.Atoi(*m.formEstimated)

		if m.editID != 0 {
			// Start from the cached version so fields the form does not
			// expose (done, gone_through, subtasks) survive the PUT.
			task := api.Task{ID: m.editID}
			for _, item := range m.collection().Items() {
				if item.ID == m.editID {
					task = item
					break
				}
			}
			task.Title = *m.formTitle
			task.Description = *m.formDescription
			task.Estimated = estimated
			task.Tags = parseTags(*m.formTags)
			if err := m.service.UpdateTask(context.Background(), task); err != nil {
				return m, errStatus(err)
			}
			return m, nil
		}

		task := api.Task{
			Title:       *m.formTitle,
			Description: *m.formDescription,
			Estimated:   estimated,
			Tags:        parseTags(*m.formTags),
		}
		if err := m.collection().Create(context.Background(), task); err != nil {
			return m, errStatus(err)
		}
		m.cursor = 0
		return m, nil
	}

	return m, cmd
}

func parseTags(raw string) []api.Tag {
	var tags []api.Tag
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			tags = append(tags, api.Tag{Name: name})
		}
	}
	return tags
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		formTitle := "New Task"
		if m.editID != 0 {
			formTitle = "Edit Task"
		}
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(formTitle), "", m.form.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	tasks := m.collection()
	title := titleStyle.Render("Tasks")

	if len(tasks.Items()) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks on this page. Press n to create one."),
			"",
			m.renderPagination(),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, task := range tasks.Items() {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := "[ ]"
		if task.Done {
			check = successStyle.Render("[x]")
		}
		focus := "  "
		if task.ID == m.service.CurrentTaskID() {
			focus = accentStyle.Render("▶ ")
		}

		progress := mutedStyle.Render(fmt.Sprintf(" %d/%d", task.GoneThrough, task.Estimated))
		tags := ""
		if len(task.Tags) > 0 {
			names := make([]string, len(task.Tags))
			for j, tag := range task.Tags {
				names[j] = tag.Name
			}
			tags = highlightStyle.Render(" [" + strings.Join(names, ", ") + "]")
		}

		rows = append(rows, focus+style.Render(cursor+check+" "+task.Title)+progress+tags)
	}

	rows = append(rows, "")
	rows = append(rows, m.renderPagination())
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  x: done  c/enter: focus  ←/→: page"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m tasksModel) renderPagination() string {
	return renderPagination(m.collection().Page(), m.collection().TotalPages(), m.collection().Total(), "task")
}

func renderPagination(page, totalPages, total int, noun string) string {
	if totalPages < 1 {
		totalPages = 1
	}
	plural := noun
	if total != 1 {
		plural += "s"
	}
	return mutedStyle.Render(fmt.Sprintf("  page %d/%d · %d %s", page, totalPages, total, plural))
}
