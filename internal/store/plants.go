package store

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// StorageReadError means the persisted plant document could not be read or
// parsed. PlantDocument.Load recovers from it by starting empty.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read plant document %q: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// StorageWriteError means the plant document could not be written, e.g. the
// disk is full. Callers surface it once and do not retry.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("save plant document %q: %v", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// DecodePlants parses a plant document. A JSON null decodes to an empty
// collection.
func DecodePlants(data []byte) ([]Plant, error) {
	var plants []Plant
	if err := json.Unmarshal(data, &plants); err != nil {
		return nil, err
	}
	if plants == nil {
		plants = []Plant{}
	}
	return plants, nil
}

// EncodePlants serializes the collection as one JSON array.
func EncodePlants(plants []Plant) ([]byte, error) {
	if plants == nil {
		plants = []Plant{}
	}
	return json.Marshal(plants)
}

// PlantDocument persists the whole plant collection as a single JSON
// document under one key of the documents table.
type PlantDocument struct {
	store *Store
	key   string
	log   zerolog.Logger
}

func NewPlantDocument(s *Store, key string, log zerolog.Logger) *PlantDocument {
	if key == "" {
		key = DefaultPlantsKey
	}
	return &PlantDocument{
		store: s,
		key:   key,
		log:   log.With().Str("component", "plant_document").Str("key", key).Logger(),
	}
}

func (d *PlantDocument) Key() string { return d.key }

// Load returns the stored collection. Missing or unreadable data yields an
// empty collection; the read error is logged, never returned.
func (d *PlantDocument) Load() []Plant {
	plants, err := d.read()
	if err != nil {
		d.log.Warn().Err(err).Msg("plant document unreadable, starting with an empty collection")
		return []Plant{}
	}
	return plants
}

func (d *PlantDocument) read() ([]Plant, error) {
	doc, err := d.store.GetDocument(d.key)
	if err != nil {
		return nil, &StorageReadError{Key: d.key, Err: err}
	}
	if doc == nil {
		return []Plant{}, nil
	}

	plants, err := DecodePlants([]byte(doc.Value))
	if err != nil {
		return nil, &StorageReadError{Key: d.key, Err: err}
	}

	kept := make([]Plant, 0, len(plants))
	for _, p := range plants {
		if p.Frequency < 1 {
			d.log.Warn().Str("plant_id", p.ID).Int("frequency", p.Frequency).Msg("dropping plant with invalid watering interval")
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}

// Save writes the whole collection in one upsert.
func (d *PlantDocument) Save(plants []Plant) error {
	data, err := EncodePlants(plants)
	if err != nil {
		return &StorageWriteError{Key: d.key, Err: err}
	}
	if err := d.store.PutDocument(d.key, string(data)); err != nil {
		return &StorageWriteError{Key: d.key, Err: err}
	}
	d.log.Debug().Int("plants", len(plants)).Msg("plant document saved")
	return nil
}

// Clear removes the document key altogether.
func (d *PlantDocument) Clear() error {
	if err := d.store.DeleteDocument(d.key); err != nil {
		return &StorageWriteError{Key: d.key, Err: err}
	}
	return nil
}
