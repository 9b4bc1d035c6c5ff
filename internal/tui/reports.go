package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/plantcare/internal/schedule"
	"github.com/sadopc/plantcare/internal/store"
	"github.com/sadopc/plantcare/internal/view"
)

// cellOuterWidth is a calendar cell's width including its border.
const cellOuterWidth = 11

type calendarModel struct {
	width  int
	height int

	plants []store.Plant
	today  time.Time
	days   int

	cal    view.Calendar
	cursor int // selected cell

	chart barchart.Model
}

func newCalendarModel(days int) calendarModel {
	if days <= 0 {
		days = schedule.DefaultWindowDays
	}
	return calendarModel{
		days:  days,
		chart: barchart.New(60, 8),
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
	c.buildChart()
}

func (c *calendarModel) setDays(days int) {
	if days > 0 {
		c.days = days
		c.rebuild()
	}
}

func (c *calendarModel) setData(plants []store.Plant, today time.Time) {
	c.plants = plants
	c.today = today
	c.rebuild()
}

func (c *calendarModel) rebuild() {
	c.cal = view.BuildCalendar(c.plants, c.today, c.days)
	if c.cursor >= len(c.cal.Cells) {
		c.cursor = max(0, len(c.cal.Cells)-1)
	}
	c.buildChart()
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		last := len(c.cal.Cells) - 1
		switch {
		case key.Matches(msg, keys.Left):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Right):
			if c.cursor < last {
				c.cursor++
			}
		case key.Matches(msg, keys.Up):
			c.cursor = max(0, c.cursor-7)
		case key.Matches(msg, keys.Down):
			c.cursor = max(0, min(last, c.cursor+7))
		}
	}
	return c, nil
}

func (c *calendarModel) buildChart() {
	chartWidth := c.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 6
	if c.height > 40 {
		chartHeight = 10
	}

	c.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, cell := range c.cal.Cells {
		value := barchart.BarValue{
			Name:  "waterings",
			Value: float64(len(cell.Events)),
			Style: lipgloss.NewStyle().Foreground(colorWater),
		}
		if !cell.HasWatering {
			value.Style = lipgloss.NewStyle().Foreground(colorSoil)
		}
		bars = append(bars, barchart.BarData{
			Label:  fmt.Sprintf("%02d", cell.DayNumber),
			Values: []barchart.BarValue{value},
		})
	}

	c.chart.PushAll(bars)
	c.chart.Draw()
}

func (c calendarModel) view() string {
	w := c.width - 4

	header := titleStyle.Render("Watering Calendar")
	if n := len(c.cal.Cells); n > 0 {
		from := c.cal.Cells[0].Date
		to := c.cal.Cells[n-1].Date
		header = lipgloss.JoinHorizontal(lipgloss.Bottom,
			header, "  ",
			mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.Format("Jan 02, 2006"))),
		)
	}

	summary := mutedStyle.Render(fmt.Sprintf("%d waterings over the next %d days", c.cal.TotalEvents, len(c.cal.Cells)))

	nav := mutedStyle.Render("  ←/→: day  ↑/↓: week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, summary, "", c.renderGrid(w), "", c.chart.View(), "", c.renderSelected(), "", nav,
		),
	)
}

func (c calendarModel) renderGrid(w int) string {
	perRow := max(1, min(7, (w-4)/cellOuterWidth))

	var rows []string
	var row []string
	for i, cell := range c.cal.Cells {
		row = append(row, c.renderCell(i, cell))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (c calendarModel) renderCell(i int, cell view.Cell) string {
	events := " "
	if cell.HasWatering {
		events = fmt.Sprintf("💧%d", len(cell.Events))
	}
	body := fmt.Sprintf("%s\n%s %d\n%s", cell.Weekday, cell.Month, cell.DayNumber, events)

	style := cellStyle
	switch {
	case i == c.cursor:
		style = cellSelectedStyle
	case cell.IsToday:
		style = cellTodayStyle
	case cell.HasWatering:
		style = cellWaterStyle
	}
	return style.Render(body)
}

func (c calendarModel) renderSelected() string {
	if c.cursor >= len(c.cal.Cells) {
		return ""
	}
	cell := c.cal.Cells[c.cursor]
	title := highlightStyle.Render("  " + cell.Date.Format("Monday, January 2"))
	if cell.IsToday {
		title += mutedStyle.Render(" (today)")
	}
	if !cell.HasWatering {
		return title + "\n" + mutedStyle.Render("  No plants to water")
	}

	rows := []string{title}
	for _, e := range cell.Events {
		rows = append(rows, fmt.Sprintf("  %s %s %s", waterStyle.Render("💧"), e.PlantName, mutedStyle.Render(e.PlantType)))
	}
	return strings.Join(rows, "\n")
}
