package tui

import (
	"errors"
	"strconv"
	"time"

	"github.com/sadopc/plantcare/internal/registry"
	"github.com/sadopc/plantcare/internal/store"
	"github.com/sadopc/plantcare/internal/view"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewPlants
	viewCalendar
	viewSettings
)

var viewNames = []string{"Today", "Plants", "Calendar", "Settings"}

// --- Messages ---

// plantsDataMsg carries a fresh snapshot of the collection to every view.
type plantsDataMsg struct {
	plants []store.Plant
	today  time.Time
}

type plantAddedMsg struct {
	plant store.Plant
	err   error
}

type plantDeletedMsg struct {
	plant   store.Plant
	removed bool
	err     error
}

// dataDoneMsg reports the outcome of export, import or clear.
type dataDoneMsg struct {
	notice  view.Notice
	changed bool
}

type noticeMsg struct {
	notice view.Notice
}

type bannerExpiredMsg struct {
	seq int
}

type tickMsg time.Time

// --- Helpers ---

// errorNotice turns a registry or storage error into a banner.
func errorNotice(err error) view.Notice {
	var verr *registry.ValidationError
	var ierr *registry.ImportFormatError
	var werr *store.StorageWriteError
	switch {
	case errors.As(err, &verr):
		return view.Failure(verr.Message)
	case errors.As(err, &ierr):
		return view.Failure("Invalid file format")
	case errors.As(err, &werr):
		return view.Failure("Could not save your plants: " + werr.Err.Error())
	}
	return view.Failure(err.Error())
}

func formatDay(t time.Time) string {
	return t.Format("Mon Jan 2")
}

// daysUntil renders the distance from today to day as "today", "tomorrow"
// or "in N days".
func daysUntil(today, day time.Time) string {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	n := int(day.Sub(today).Hours() / 24)
	switch {
	case n <= 0:
		return "today"
	case n == 1:
		return "tomorrow"
	}
	return "in " + strconv.Itoa(n) + " days"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
