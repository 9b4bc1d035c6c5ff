package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/plantcare/internal/store"
)

func plant(id, name string, freq int, added time.Time) store.Plant {
	return store.Plant{ID: id, Name: name, Type: "Tropical", Frequency: freq, DateAdded: added}
}

var jan1 = time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)

// ============================================================
// Cards
// ============================================================

func TestBuildCardsEmpty(t *testing.T) {
	list := BuildCards(nil, jan1)
	assert.True(t, list.Empty)
	assert.Empty(t, list.Cards)
}

func TestBuildCards(t *testing.T) {
	photo := "data:image/png;base64,AAAA"
	plants := []store.Plant{
		plant("1", "Monstera", 7, jan1),
		plant("2", "Fern", 1, jan1),
	}
	plants[0].Photo = &photo

	list := BuildCards(plants, jan1.AddDate(0, 0, 3))
	require.False(t, list.Empty)
	require.Len(t, list.Cards, 2)

	m := list.Cards[0]
	assert.Equal(t, "1", m.ID)
	assert.Equal(t, "Monstera", m.Name)
	assert.Equal(t, "Tropical", m.Type)
	assert.Equal(t, "Every 7 days", m.FrequencyLabel)
	assert.Equal(t, photo, m.PhotoURL)
	assert.False(t, m.Placeholder)
	assert.Equal(t, "2024-01-08", m.NextDue.Format(DateLayout))
	assert.False(t, m.DueToday)

	f := list.Cards[1]
	assert.Equal(t, "Every 1 day", f.FrequencyLabel)
	assert.True(t, f.Placeholder)
	assert.Empty(t, f.PhotoURL)
	assert.True(t, f.DueToday)
}

func TestBuildCardsEmptyPhotoIsPlaceholder(t *testing.T) {
	empty := ""
	p := plant("1", "A", 2, jan1)
	p.Photo = &empty

	list := BuildCards([]store.Plant{p}, jan1)
	assert.True(t, list.Cards[0].Placeholder)
}

func TestFormatFrequency(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{1, "Every 1 day"},
		{2, "Every 2 days"},
		{14, "Every 14 days"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFrequency(tt.days))
	}
}

// ============================================================
// Calendar
// ============================================================

func TestBuildCalendarEmptyCollection(t *testing.T) {
	cal := BuildCalendar(nil, jan1, 30)
	require.Len(t, cal.Cells, 30)
	for _, c := range cal.Cells {
		assert.Empty(t, c.Events)
		assert.False(t, c.HasWatering)
	}
	assert.Equal(t, 0, cal.TotalEvents)
	assert.Equal(t, 0, cal.Busiest())
}

func TestBuildCalendarCells(t *testing.T) {
	cal := BuildCalendar(nil, jan1, 30)

	first := cal.Cells[0]
	assert.True(t, first.IsToday)
	assert.Equal(t, "Mon", first.Weekday)
	assert.Equal(t, "Jan", first.Month)
	assert.Equal(t, 1, first.DayNumber)
	assert.Equal(t, "2024-01-01", first.DateString)

	last := cal.Cells[29]
	assert.False(t, last.IsToday)
	assert.Equal(t, "2024-01-30", last.DateString)
	assert.Equal(t, "Tue", last.Weekday)
}

func TestBuildCalendarWeeklyPlant(t *testing.T) {
	plants := []store.Plant{plant("1", "Monstera", 7, jan1)}
	cal := BuildCalendar(plants, jan1, 30)

	var due []string
	for _, c := range cal.Cells {
		if c.HasWatering {
			due = append(due, c.DateString)
			require.Len(t, c.Events, 1)
			assert.Equal(t, "Monstera", c.Events[0].PlantName)
		}
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"}, due)
	assert.Equal(t, 5, cal.TotalEvents)
}

func TestBuildCalendarEventOrder(t *testing.T) {
	plants := []store.Plant{
		plant("1", "Zebra", 1, jan1),
		plant("2", "Aloe", 1, jan1),
	}
	cal := BuildCalendar(plants, jan1, 3)
	for _, c := range cal.Cells {
		require.Len(t, c.Events, 2)
		assert.Equal(t, "Zebra", c.Events[0].PlantName)
		assert.Equal(t, "Aloe", c.Events[1].PlantName)
	}
	assert.Equal(t, 2, cal.Busiest())
}

func TestBuildCalendarIsPure(t *testing.T) {
	plants := []store.Plant{plant("1", "A", 3, jan1)}
	assert.Equal(t, BuildCalendar(plants, jan1, 10), BuildCalendar(plants, jan1, 10))
}

func TestBuildCalendarZeroDays(t *testing.T) {
	cal := BuildCalendar([]store.Plant{plant("1", "A", 1, jan1)}, jan1, 0)
	assert.Empty(t, cal.Cells)
}

// ============================================================
// Notices
// ============================================================

func TestNotices(t *testing.T) {
	a := Added("Monstera")
	assert.Equal(t, NoticeSuccess, a.Kind)
	assert.Equal(t, "🌱 Monstera has been added to your collection!", a.Message)

	r := Removed("Monstera")
	assert.Equal(t, NoticeInfo, r.Kind)
	assert.Equal(t, "Monstera has been removed from your collection.", r.Message)

	assert.Equal(t, "Imported 1 plant.", Imported(1).Message)
	assert.Equal(t, "Imported 4 plants.", Imported(4).Message)
	assert.Equal(t, NoticeError, Failure("boom").Kind)
	assert.True(t, Notice{}.IsZero())
	assert.False(t, a.IsZero())
}
