package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/beocaca/pomo.do/internal/api"
	"github.com/beocaca/pomo.do/internal/chore"
)

type projectsModel struct {
	service *chore.Service
	width   int
	height  int

	cursor int

	formActive bool
	form       *huh.Form
	editID     int64 // 0 while the form creates a new project
	formName   *string
}

func newProjectsModel(service *chore.Service) projectsModel {
	name := ""
	return projectsModel{
		service:  service,
		formName: &name,
	}
}

func (m *projectsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m projectsModel) collection() *chore.Collection[api.Project] {
	return m.service.Projects()
}

func (m projectsModel) refresh() (projectsModel, tea.Cmd) {
	if err := m.collection().FetchPage(context.Background()); err != nil {
		return m, errStatus(err)
	}
	if n := len(m.collection().Items()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	return m, nil
}

func (m projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	projects := m.collection()
	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(projects.Items())-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Left):
		before := projects.Page()
		projects.PreviousPage()
		if projects.Page() != before {
			return m.refresh()
		}
	case key.Matches(keyMsg, keys.Right):
		before := projects.Page()
		projects.NextPage()
		if projects.Page() != before {
			return m.refresh()
		}
	case key.Matches(keyMsg, keys.New):
		return m.showNewProjectForm()
	case key.Matches(keyMsg, keys.Edit):
		if len(projects.Items()) > 0 {
			return m.showRenameProjectForm(projects.Items()[m.cursor])
		}
	case key.Matches(keyMsg, keys.Delete):
		if len(projects.Items()) > 0 {
			id := projects.Items()[m.cursor].ID
			if err := m.service.DeleteProject(context.Background(), id); err != nil {
				return m, errStatus(err)
			}
			if n := len(projects.Items()); m.cursor >= n {
				m.cursor = max(0, n-1)
			}
		}
	}
	return m, nil
}

func (m projectsModel) showNewProjectForm() (projectsModel, tea.Cmd) {
	m.editID = 0
	*m.formName = ""
	return m.openForm()
}

func (m projectsModel) showRenameProjectForm(project api.Project) (projectsModel, tea.Cmd) {
	m.editID = project.ID
	*m.formName = project.Name
	return m.openForm()
}

func (m projectsModel) openForm() (projectsModel, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(m.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
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
		if *m.formName == "" {
			return m, nil
		}
		if m.editID != 0 {
			if err := m.service.RenameProject(context.Background(), m.editID, *m.formName); err != nil {
				return m, errStatus(err)
			}
			return m, nil
		}
		project := api.Project{Name: *m.formName, Tasks: []api.Task{}}
		if err := m.collection().Create(context.Background(), project); err != nil {
			return m, errStatus(err)
		}
		m.cursor = 0
		return m, nil
	}

	return m, cmd
}

func (m projectsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		formTitle := "New Project"
		if m.editID != 0 {
			formTitle = "Rename Project"
		}
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(formTitle), "", m.form.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	projects := m.collection()
	title := titleStyle.Render("Projects")

	if len(projects.Items()) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects on this page. Press n to create one."),
			"",
			m.renderPagination(),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, project := range projects.Items() {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		count := mutedStyle.Render(fmt.Sprintf("  %d tasks", len(project.Tasks)))
		rows = append(rows, style.Render(cursor+project.Name)+count)
	}

	rows = append(rows, "")
	rows = append(rows, m.renderPagination())
	rows = append(rows, mutedStyle.Render("  n: new  e: rename  d: delete  ←/→: page"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m projectsModel) renderPagination() string {
	return renderPagination(m.collection().Page(), m.collection().TotalPages(), m.collection().Total(), "project")
}
