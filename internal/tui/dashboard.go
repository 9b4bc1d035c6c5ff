package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/plantcare/internal/schedule"
	"github.com/sadopc/plantcare/internal/store"
	"github.com/sadopc/plantcare/internal/view"
)

// upcomingDays is how far ahead the Today view looks.
const upcomingDays = 7

type todayModel struct {
	width  int
	height int

	today    time.Time
	plants   []store.Plant
	dueToday []schedule.WateringEvent
	upcoming view.Calendar
}

func newTodayModel() todayModel {
	return todayModel{}
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *todayModel) setData(plants []store.Plant, today time.Time) {
	d.plants = plants
	d.today = schedule.Day(today)
	d.dueToday = schedule.EventsOn(plants, d.today)
	if len(plants) == 0 {
		d.upcoming = view.Calendar{}
		return
	}
	d.upcoming = view.BuildCalendar(plants, d.today.AddDate(0, 0, 1), upcomingDays)
}

func (d todayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderDuePanel(contentWidth),
		d.renderUpcomingPanel(contentWidth),
	)
}

func (d todayModel) renderDuePanel(w int) string {
	title := titleStyle.Render("Today")
	date := mutedStyle.Render(formatDay(d.today))
	header := fmt.Sprintf("%s  %s", title, date)

	if len(d.plants) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			mutedStyle.Render("No plants yet. Press 2 and then n to add your first plant."),
		)
		return panelStyle.Width(w).Render(content)
	}

	if len(d.dueToday) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			successStyle.Render("Nothing to water today."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header, "")
	for _, e := range d.dueToday {
		rows = append(rows, fmt.Sprintf("  %s %-24s %s",
			waterStyle.Render("💧"),
			truncate(e.PlantName, 24),
			mutedStyle.Render(e.PlantType),
		))
	}
	rows = append(rows, "")
	rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %d of %d plants need water", len(d.dueToday), len(d.plants))))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d todayModel) renderUpcomingPanel(w int) string {
	title := titleStyle.Render("Coming Up")

	if d.upcoming.TotalEvents == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render(fmt.Sprintf("No waterings in the next %d days", upcomingDays)),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, cell := range d.upcoming.Cells {
		if !cell.HasWatering {
			continue
		}
		names := make([]string, 0, len(cell.Events))
		for _, e := range cell.Events {
			names = append(names, e.PlantName)
		}
		rows = append(rows, fmt.Sprintf("  %-11s %-9s %s",
			formatDay(cell.Date),
			mutedStyle.Render(daysUntil(d.today, cell.Date)),
			truncate(strings.Join(names, ", "), max(10, w-30)),
		))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
