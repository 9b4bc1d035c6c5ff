// Package view turns the plant collection into the view models both
// front-ends render. Builders are pure: same plants and day, same output.
package view

import (
	"fmt"
	"time"

	"github.com/sadopc/plantcare/internal/schedule"
	"github.com/sadopc/plantcare/internal/store"
)

// PlaceholderPhoto stands in for plants registered without a photo.
const PlaceholderPhoto = "🌿"

// DateLayout is the calendar cell date key, e.g. "2024-01-15".
const DateLayout = "2006-01-02"

type Card struct {
	ID             string
	Name           string
	Type           string
	Frequency      int
	FrequencyLabel string
	PhotoURL       string
	Placeholder    bool
	DateAdded      time.Time
	NextDue        time.Time
	DueToday       bool
}

type CardList struct {
	Cards []Card
	Empty bool
}

// BuildCards renders one card per plant in collection order.
func BuildCards(plants []store.Plant, today time.Time) CardList {
	day := schedule.Day(today)
	list := CardList{Cards: make([]Card, 0, len(plants)), Empty: len(plants) == 0}
	for _, p := range plants {
		c := Card{
			ID:             p.ID,
			Name:           p.Name,
			Type:           p.Type,
			Frequency:      p.Frequency,
			FrequencyLabel: FormatFrequency(p.Frequency),
			Placeholder:    !p.HasPhoto(),
			DateAdded:      p.DateAdded,
			NextDue:        schedule.NextDue(p, day),
			DueToday:       schedule.IsDue(p, day),
		}
		if p.HasPhoto() {
			c.PhotoURL = *p.Photo
		}
		list.Cards = append(list.Cards, c)
	}
	return list
}

// FormatFrequency renders a watering interval: "Every 1 day", "Every 3 days".
func FormatFrequency(days int) string {
	if days == 1 {
		return "Every 1 day"
	}
	return fmt.Sprintf("Every %d days", days)
}

// Cell is one day of the calendar.
type Cell struct {
	Date        time.Time
	DateString  string
	Weekday     string
	Month       string
	DayNumber   int
	IsToday     bool
	Events      []schedule.WateringEvent
	HasWatering bool
}

type Calendar struct {
	Cells       []Cell
	TotalEvents int
}

// BuildCalendar renders days cells starting at today. Days without events
// still get a cell.
func BuildCalendar(plants []store.Plant, today time.Time, days int) Calendar {
	var cal Calendar
	window := schedule.Window(today, days)
	cal.Cells = make([]Cell, 0, len(window))
	for i, d := range window {
		events := schedule.EventsOn(plants, d)
		cal.Cells = append(cal.Cells, Cell{
			Date:        d,
			DateString:  d.Format(DateLayout),
			Weekday:     d.Format("Mon"),
			Month:       d.Format("Jan"),
			DayNumber:   d.Day(),
			IsToday:     i == 0,
			Events:      events,
			HasWatering: len(events) > 0,
		})
		cal.TotalEvents += len(events)
	}
	return cal
}

// Busiest returns the largest number of events on any single day.
func (c Calendar) Busiest() int {
	most := 0
	for _, cell := range c.Cells {
		most = max(most, len(cell.Events))
	}
	return most
}
