package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/beocaca/pomo.do/internal/chore"
)

const statsWindowDays = 7

type statsModel struct {
	service *chore.Service
	width   int
	height  int

	offset int // 7-day blocks back from today (0 = current)
	chart  barchart.Model
}

func newStatsModel(service *chore.Service) statsModel {
	return statsModel{
		service: service,
		chart:   barchart.New(60, 12),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m statsModel) refresh() (statsModel, tea.Cmd) {
	if err := m.service.FetchStats(context.Background()); err != nil {
		return m, errStatus(err)
	}
	m.buildChart()
	return m, nil
}

func (m statsModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1-statsWindowDays*m.offset)
	return end.AddDate(0, 0, -statsWindowDays), end
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Left):
		m.offset++
		m.buildChart()
	case key.Matches(keyMsg, keys.Right):
		if m.offset > 0 {
			m.offset--
			m.buildChart()
		}
	}
	return m, nil
}

func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	m.chart = barchart.New(chartWidth, 12)

	byDay := make(map[string]int)
	for _, stat := range m.service.Stats() {
		byDay[stat.Day] = stat.ChoresDone
	}

	from, to := m.dateRange()
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		value := float64(byDay[d.Format("2006-01-02")])
		style := accentStyle
		if value == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "sessions", Value: value, Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	from, to := m.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s · %s",
		from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Completed Sessions"), "  ", dateLabel,
	)

	total := 0
	for _, stat := range m.service.Stats() {
		total += stat.ChoresDone
	}
	summary := mutedStyle.Render(fmt.Sprintf("  %d sessions recorded all time", total))

	nav := mutedStyle.Render("  ←/→: navigate weeks")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", m.renderRecent(), summary, "", nav,
		),
	)
}

func (m statsModel) renderRecent() string {
	stats := m.service.Stats()
	if len(stats) == 0 {
		return mutedStyle.Render("  No sessions recorded yet")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %8s", "Day", "Done")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", 21)))

	start := len(stats) - 7
	if start < 0 {
		start = 0
	}
	for _, stat := range stats[start:] {
		rows = append(rows, fmt.Sprintf("  %-12s %8d", stat.Day, stat.ChoresDone))
	}
	return strings.Join(rows, "\n")
}
