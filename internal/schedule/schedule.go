// Package schedule projects watering due-dates from a plant's registration
// day and interval. Nothing here is persisted; events are recomputed for
// every render.
package schedule

import (
	"time"

	"github.com/sadopc/plantcare/internal/store"
)

// DefaultWindowDays is the length of the rolling calendar window.
const DefaultWindowDays = 30

// WateringEvent says a plant is due for watering on Date.
type WateringEvent struct {
	Date      time.Time
	PlantID   string
	PlantName string
	PlantType string
}

// Day truncates t to midnight of its calendar date in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts whole calendar days from a to b. Both are reduced to
// their calendar dates in b's location first, so time of day and DST shifts
// never change the result.
func DaysBetween(a, b time.Time) int {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int((to.Unix() - from.Unix()) / 86400)
}

// IsDue reports whether p is due on day: the registration day itself and
// every Frequency-th day after it. Days before registration are never due.
func IsDue(p store.Plant, day time.Time) bool {
	if p.Frequency < 1 {
		return false
	}
	n := DaysBetween(p.DateAdded, day)
	return n >= 0 && n%p.Frequency == 0
}

// Window returns length consecutive days starting at today's date.
func Window(today time.Time, length int) []time.Time {
	if length < 0 {
		length = 0
	}
	start := Day(today)
	days := make([]time.Time, 0, length)
	for i := 0; i < length; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// DueDates lists the days in [windowStart, windowStart+windowLength) on
// which p is due.
func DueDates(p store.Plant, windowStart time.Time, windowLength int) []time.Time {
	var out []time.Time
	for _, d := range Window(windowStart, windowLength) {
		if IsDue(p, d) {
			out = append(out, d)
		}
	}
	return out
}

// EventsOn returns the watering events for day in collection order.
func EventsOn(plants []store.Plant, day time.Time) []WateringEvent {
	d := Day(day)
	var events []WateringEvent
	for _, p := range plants {
		if IsDue(p, d) {
			events = append(events, WateringEvent{
				Date:      d,
				PlantID:   p.ID,
				PlantName: p.Name,
				PlantType: p.Type,
			})
		}
	}
	return events
}

// NextDue returns the first due day on or after today. A plant registered
// in the future is next due on its registration day.
func NextDue(p store.Plant, today time.Time) time.Time {
	t := Day(today)
	if p.Frequency < 1 {
		return time.Time{}
	}
	n := DaysBetween(p.DateAdded, t)
	if n <= 0 {
		return t.AddDate(0, 0, -n)
	}
	rem := n % p.Frequency
	if rem == 0 {
		return t
	}
	return t.AddDate(0, 0, p.Frequency-rem)
}
