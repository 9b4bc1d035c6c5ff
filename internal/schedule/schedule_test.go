package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/plantcare/internal/store"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func plant(id string, freq int, added time.Time) store.Plant {
	return store.Plant{ID: id, Name: "Plant " + id, Type: "Test", Frequency: freq, DateAdded: added}
}

func dateStrings(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

func TestWeeklyPlantScenario(t *testing.T) {
	p := plant("1", 7, date(2024, time.January, 1))

	got := DueDates(p, date(2024, time.January, 1), 30)
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"}, dateStrings(got))

	for d := 2; d <= 7; d++ {
		assert.False(t, IsDue(p, date(2024, time.January, d)), "not due on Jan %d", d)
	}
}

func TestDailyPlantDueEveryDay(t *testing.T) {
	p := plant("1", 1, date(2024, time.March, 10))

	got := DueDates(p, date(2024, time.March, 10), 30)
	assert.Len(t, got, 30)
}

func TestRegistrationDayAlwaysDue(t *testing.T) {
	for _, freq := range []int{1, 2, 3, 7, 30, 365} {
		p := plant("1", freq, date(2025, time.June, 15))
		assert.True(t, IsDue(p, date(2025, time.June, 15)), "frequency %d", freq)
	}
}

func TestDaysBeforeRegistrationNeverDue(t *testing.T) {
	p := plant("1", 1, date(2024, time.January, 15))

	got := DueDates(p, date(2024, time.January, 1), 30)
	require.NotEmpty(t, got)
	assert.Equal(t, "2024-01-15", got[0].Format("2006-01-02"))
	assert.Len(t, got, 16)
}

func TestDueDatesArePeriodic(t *testing.T) {
	registered := date(2023, time.November, 3)
	windowStart := date(2024, time.February, 20)

	for _, freq := range []int{1, 2, 3, 5, 7, 10, 14, 31} {
		p := plant("1", freq, registered)
		got := DueDates(p, windowStart, 45)

		want := []string{}
		for d := registered; d.Before(windowStart.AddDate(0, 0, 45)); d = d.AddDate(0, 0, freq) {
			if !d.Before(windowStart) {
				want = append(want, d.Format("2006-01-02"))
			}
		}
		assert.Equal(t, want, dateStrings(got), "frequency %d", freq)
	}
}

func TestTimeOfDayIgnored(t *testing.T) {
	// Registered late in the evening; the next day is one day later even
	// though fewer than 24 hours have passed.
	p := plant("1", 1, time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC))

	assert.True(t, IsDue(p, time.Date(2024, time.January, 2, 0, 1, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysBetween(p.DateAdded, time.Date(2024, time.January, 2, 0, 1, 0, 0, time.UTC)))

	p2 := plant("2", 2, time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC))
	assert.False(t, IsDue(p2, time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC)))
	assert.True(t, IsDue(p2, time.Date(2024, time.January, 3, 8, 0, 0, 0, time.UTC)))
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	before := time.Date(2024, time.March, 9, 12, 0, 0, 0, loc)
	after := time.Date(2024, time.March, 11, 0, 30, 0, 0, loc)
	assert.Equal(t, 2, DaysBetween(before, after))
}

func TestDaysBetweenUsesTargetLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2024-01-01 20:00 UTC is already 2024-01-02 in Tokyo.
	added := time.Date(2024, time.January, 1, 20, 0, 0, 0, time.UTC)
	today := time.Date(2024, time.January, 2, 10, 0, 0, 0, tokyo)
	assert.Equal(t, 0, DaysBetween(added, today))
}

func TestDaysBetweenCenturiesApart(t *testing.T) {
	assert.Equal(t, 118338, DaysBetween(date(1700, time.January, 1), date(2024, time.January, 1)))
	assert.Equal(t, -118338, DaysBetween(date(2024, time.January, 1), date(1700, time.January, 1)))
}

func TestWeeklyPlantRegisteredLongAgo(t *testing.T) {
	p := plant("1", 7, date(1700, time.January, 1))

	got := DueDates(p, date(2024, time.January, 1), 30)
	require.NotEmpty(t, got)
	assert.Equal(t, []string{"2024-01-05", "2024-01-12", "2024-01-19", "2024-01-26"}, dateStrings(got))
	for _, d := range got {
		assert.Zero(t, DaysBetween(p.DateAdded, d)%7, d.Format("2006-01-02"))
	}
}

func TestZeroFrequencyNeverDue(t *testing.T) {
	p := plant("1", 0, date(2024, time.January, 1))
	assert.False(t, IsDue(p, date(2024, time.January, 1)))
	assert.Empty(t, DueDates(p, date(2024, time.January, 1), 30))
	assert.True(t, NextDue(p, date(2024, time.January, 1)).IsZero())
}

func TestWindow(t *testing.T) {
	today := time.Date(2024, time.February, 27, 15, 4, 5, 0, time.UTC)
	days := Window(today, 5)

	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, dateStrings(days))
	assert.Equal(t, 0, days[0].Hour())
	assert.Empty(t, Window(today, 0))
	assert.Empty(t, Window(today, -3))
}

func TestEventsOn(t *testing.T) {
	plants := []store.Plant{
		plant("a", 2, date(2024, time.January, 1)),
		plant("b", 1, date(2024, time.January, 1)),
		plant("c", 3, date(2024, time.January, 1)),
	}

	events := EventsOn(plants, time.Date(2024, time.January, 3, 18, 0, 0, 0, time.UTC))
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].PlantID)
	assert.Equal(t, "b", events[1].PlantID)
	assert.Equal(t, "Plant a", events[0].PlantName)
	assert.Equal(t, "Test", events[0].PlantType)
	assert.Equal(t, date(2024, time.January, 3), events[0].Date)

	assert.Empty(t, EventsOn(nil, date(2024, time.January, 3)))
}

func TestNextDue(t *testing.T) {
	p := plant("1", 7, date(2024, time.January, 1))

	tests := []struct {
		today time.Time
		want  string
	}{
		{date(2023, time.December, 25), "2024-01-01"},
		{date(2024, time.January, 1), "2024-01-01"},
		{date(2024, time.January, 2), "2024-01-08"},
		{date(2024, time.January, 8), "2024-01-08"},
		{date(2024, time.January, 9), "2024-01-15"},
	}
	for _, tt := range tests {
		got := NextDue(p, tt.today)
		assert.Equal(t, tt.want, got.Format("2006-01-02"), "today %s", tt.today.Format("2006-01-02"))
		assert.True(t, IsDue(p, got))
	}
}
