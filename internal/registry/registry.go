// Package registry owns the plant collection. Every mutation goes through a
// Registry method that updates the in-memory slice and writes the whole
// document back to storage while holding the registry lock.
package registry

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/plantcare/internal/store"
)

// Storage persists the collection as a single document.
type Storage interface {
	Load() []store.Plant
	Save(plants []store.Plant) error
	Clear() error
}

type Registry struct {
	mu      sync.Mutex
	storage Storage
	plants  []store.Plant
	log     zerolog.Logger

	now           func() time.Time
	lastID        int64
	maxPhotoBytes int64
}

type Option func(*Registry)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithMaxPhotoBytes(n int64) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxPhotoBytes = n
		}
	}
}

// New loads the collection from storage.
func New(storage Storage, log zerolog.Logger, opts ...Option) *Registry {
	r := &Registry{
		storage:       storage,
		log:           log.With().Str("component", "registry").Logger(),
		now:           time.Now,
		maxPhotoBytes: DefaultMaxPhotoBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.plants = storage.Load()
	r.log.Info().Int("plants", len(r.plants)).Msg("collection loaded")
	return r
}

// Plants returns a copy of the collection in display order.
func (r *Registry) Plants() []store.Plant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plants)
}

func (r *Registry) Get(id string) (store.Plant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return store.Plant{}, false
	}
	return r.plants[i], true
}

// Add validates the input, encodes the optional photo and appends a new
// plant. Invalid input returns a *ValidationError with no write attempted.
// A failed write returns *store.StorageWriteError together with the plant,
// which stays in memory.
func (r *Registry) Add(ctx context.Context, in Input) (store.Plant, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return store.Plant{}, err
	}

	var photo *string
	if len(in.Photo) > 0 {
		encoded, err := EncodePhoto(ctx, bytes.NewReader(in.Photo), r.maxPhotoBytes)
		if err != nil {
			return store.Plant{}, err
		}
		photo = &encoded
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC().Truncate(time.Millisecond)
	p := store.Plant{
		ID:        r.nextID(now),
		Name:      in.Name,
		Type:      in.Type,
		Frequency: in.Frequency,
		Photo:     photo,
		DateAdded: now,
	}
	r.plants = append(r.plants, p)

	if err := r.storage.Save(r.snapshot()); err != nil {
		r.log.Error().Err(err).Str("plant_id", p.ID).Msg("save after add failed")
		return p, err
	}
	r.log.Info().Str("plant_id", p.ID).Str("name", p.Name).Int("frequency", p.Frequency).Bool("photo", photo != nil).Msg("plant added")
	return p, nil
}

// Delete removes the plant with id. Unknown ids are a no-op and report
// false.
func (r *Registry) Delete(id string) (store.Plant, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return store.Plant{}, false, nil
	}
	removed := r.plants[i]
	r.plants = append(r.plants[:i:i], r.plants[i+1:]...)

	if err := r.storage.Save(r.snapshot()); err != nil {
		r.log.Error().Err(err).Str("plant_id", id).Msg("save after delete failed")
		return removed, true, err
	}
	r.log.Info().Str("plant_id", id).Str("name", removed.Name).Msg("plant removed")
	return removed, true, nil
}

// Import replaces the whole collection with the document in data. A
// malformed document returns *ImportFormatError and changes nothing.
func (r *Registry) Import(data []byte) error {
	plants, err := store.DecodePlants(data)
	if err != nil {
		return &ImportFormatError{Err: err}
	}
	if err := checkImported(plants); err != nil {
		return &ImportFormatError{Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.storage.Save(plants); err != nil {
		r.log.Error().Err(err).Msg("save imported collection failed")
		return err
	}
	r.plants = plants
	r.log.Info().Int("plants", len(plants)).Msg("collection imported")
	return nil
}

func checkImported(plants []store.Plant) error {
	seen := make(map[string]bool, len(plants))
	for i, p := range plants {
		switch {
		case p.ID == "":
			return fmt.Errorf("record %d: missing id", i)
		case seen[p.ID]:
			return fmt.Errorf("record %d: duplicate id %q", i, p.ID)
		case strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Type) == "":
			return fmt.Errorf("record %d: name and type are required", i)
		case p.Frequency < 1:
			return fmt.Errorf("record %d: frequency must be at least 1", i)
		case p.DateAdded.IsZero():
			return fmt.Errorf("record %d: missing dateAdded", i)
		}
		seen[p.ID] = true
	}
	return nil
}

// Clear deletes the stored document and empties the collection.
func (r *Registry) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.storage.Clear(); err != nil {
		r.log.Error().Err(err).Msg("clear failed")
		return err
	}
	r.plants = []store.Plant{}
	r.log.Info().Msg("collection cleared")
	return nil
}

// Reload discards the in-memory collection and reads storage again.
func (r *Registry) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plants = r.storage.Load()
}

func (r *Registry) snapshot() []store.Plant {
	out := make([]store.Plant, len(r.plants))
	copy(out, r.plants)
	return out
}

func (r *Registry) indexOf(id string) int {
	for i, p := range r.plants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// nextID returns the creation time in Unix milliseconds, bumped forward
// past any id already issued or present in the collection.
func (r *Registry) nextID(now time.Time) string {
	ms := now.UnixMilli()
	if ms <= r.lastID {
		ms = r.lastID + 1
	}
	for r.indexOf(strconv.FormatInt(ms, 10)) >= 0 {
		ms++
	}
	r.lastID = ms
	return strconv.FormatInt(ms, 10)
}
