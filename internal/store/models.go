package store

import "time"

// Plant is one registered houseplant. Records are never edited after
// creation; Frequency is always >= 1 for anything that reaches the scheduler.
type Plant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Frequency int       `json:"frequency"`
	Photo     *string   `json:"photo"`
	DateAdded time.Time `json:"dateAdded"`
}

// HasPhoto reports whether the plant carries an encoded photo.
func (p Plant) HasPhoto() bool {
	return p.Photo != nil && *p.Photo != ""
}

type Setting struct {
	Key   string
	Value string
}

// Document is a raw key-value row of the documents table.
type Document struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
