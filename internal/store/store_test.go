package store

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestDocument(t *testing.T, s *Store) *PlantDocument {
	t.Helper()
	return NewPlantDocument(s, DefaultPlantsKey, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func samplePlants() []Plant {
	added := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)
	return []Plant{
		{ID: "1704101400000", Name: "Monstera", Type: "Tropical", Frequency: 7, DateAdded: added},
		{ID: "1704101400001", Name: "Aloe", Type: "Succulent", Frequency: 14, Photo: strPtr("data:image/png;base64,iVBORw0KGgo="), DateAdded: added.Add(time.Minute)},
		{ID: "1704101400002", Name: "Fern", Type: "Fern", Frequency: 1, DateAdded: added.Add(2 * time.Minute)},
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/plantcare.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := newTestDocument(t, s)
	if err := doc.Save(samplePlants()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migration is not re-run destructively
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got := newTestDocument(t, s2).Load()
	if len(got) != 3 {
		t.Fatalf("expected 3 plants after reopen, got %d", len(got))
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Documents
// ============================================================

func TestGetDocumentMissing(t *testing.T) {
	s := newTestStore(t)
	doc, err := s.GetDocument("nope")
	if err != nil {
		t.Fatal(err)
	}
	if doc != nil {
		t.Fatalf("expected nil document, got %+v", doc)
	}
}

func TestPutDocumentOverwrites(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutDocument("k", "one"); err != nil {
		t.Fatal(err)
	}
	if err := s.PutDocument("k", "two"); err != nil {
		t.Fatal(err)
	}
	doc, err := s.GetDocument("k")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Value != "two" {
		t.Fatalf("value = %q, want two", doc.Value)
	}
	if doc.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt should be set")
	}

	var count int
	s.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count)
	if count != 1 {
		t.Fatalf("expected a single row, got %d", count)
	}
}

func TestDeleteDocument(t *testing.T) {
	s := newTestStore(t)
	s.PutDocument("k", "v")
	if err := s.DeleteDocument("k"); err != nil {
		t.Fatal(err)
	}
	doc, _ := s.GetDocument("k")
	if doc != nil {
		t.Fatal("document should be gone")
	}
	// Deleting again is fine
	if err := s.DeleteDocument("k"); err != nil {
		t.Fatal(err)
	}
}

// ============================================================
// Plant document
// ============================================================

func TestPlantDocumentLoadEmpty(t *testing.T) {
	s := newTestStore(t)
	got := newTestDocument(t, s).Load()
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil collection, got %#v", got)
	}
}

func TestPlantDocumentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	doc := newTestDocument(t, s)
	want := samplePlants()

	if err := doc.Save(want); err != nil {
		t.Fatal(err)
	}
	got := doc.Load()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.Name != w.Name || g.Type != w.Type || g.Frequency != w.Frequency {
			t.Fatalf("plant %d mismatch: got %+v, want %+v", i, g, w)
		}
		if !g.DateAdded.Equal(w.DateAdded) {
			t.Fatalf("plant %d dateAdded = %v, want %v", i, g.DateAdded, w.DateAdded)
		}
		if g.HasPhoto() != w.HasPhoto() {
			t.Fatalf("plant %d photo presence mismatch", i)
		}
		if w.HasPhoto() && *g.Photo != *w.Photo {
			t.Fatalf("plant %d photo mismatch", i)
		}
	}
}

func TestPlantDocumentSavesUnderKey(t *testing.T) {
	s := newTestStore(t)
	doc := NewPlantDocument(s, "custom_key", zerolog.Nop())
	doc.Save(samplePlants())

	raw, err := s.GetDocument("custom_key")
	if err != nil || raw == nil {
		t.Fatalf("document missing under custom key: %v", err)
	}
	other, _ := s.GetDocument(DefaultPlantsKey)
	if other != nil {
		t.Fatal("default key should be untouched")
	}
}

func TestPlantDocumentEmptyKeyFallsBackToDefault(t *testing.T) {
	s := newTestStore(t)
	doc := NewPlantDocument(s, "", zerolog.Nop())
	if doc.Key() != DefaultPlantsKey {
		t.Fatalf("key = %q, want %q", doc.Key(), DefaultPlantsKey)
	}
}

func TestPlantDocumentCorruptLoadsEmpty(t *testing.T) {
	s := newTestStore(t)
	s.PutDocument(DefaultPlantsKey, "{not json")

	got := newTestDocument(t, s).Load()
	if len(got) != 0 {
		t.Fatalf("corrupt document should load empty, got %d plants", len(got))
	}
}

func TestPlantDocumentNullLoadsEmpty(t *testing.T) {
	s := newTestStore(t)
	s.PutDocument(DefaultPlantsKey, "null")

	got := newTestDocument(t, s).Load()
	if got == nil || len(got) != 0 {
		t.Fatalf("null document should load empty, got %#v", got)
	}
}

func TestPlantDocumentDropsZeroFrequency(t *testing.T) {
	s := newTestStore(t)
	s.PutDocument(DefaultPlantsKey, `[
		{"id":"1","name":"A","type":"x","frequency":0,"photo":null,"dateAdded":"2024-01-01T00:00:00.000Z"},
		{"id":"2","name":"B","type":"y","frequency":3,"photo":null,"dateAdded":"2024-01-01T00:00:00.000Z"}
	]`)

	got := newTestDocument(t, s).Load()
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only plant 2, got %+v", got)
	}
}

func TestPlantDocumentReadsBrowserTimestamps(t *testing.T) {
	s := newTestStore(t)
	s.PutDocument(DefaultPlantsKey, `[{"id":"1704067200000","name":"Pothos","type":"Vine","frequency":7,"photo":null,"dateAdded":"2024-01-01T00:00:00.000Z"}]`)

	got := newTestDocument(t, s).Load()
	if len(got) != 1 {
		t.Fatalf("expected 1 plant, got %d", len(got))
	}
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got[0].DateAdded.Equal(want) {
		t.Fatalf("dateAdded = %v, want %v", got[0].DateAdded, want)
	}
	if got[0].HasPhoto() {
		t.Fatal("null photo should decode as no photo")
	}
}

func TestPlantDocumentClear(t *testing.T) {
	s := newTestStore(t)
	doc := newTestDocument(t, s)
	doc.Save(samplePlants())

	if err := doc.Clear(); err != nil {
		t.Fatal(err)
	}
	if got := doc.Load(); len(got) != 0 {
		t.Fatalf("expected empty after clear, got %d", len(got))
	}
}

func TestPlantDocumentSaveOnClosedStore(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	doc := newTestDocument(t, s)
	s.Close()

	err = doc.Save(samplePlants())
	if err == nil {
		t.Fatal("expected error on closed store")
	}
	if _, ok := err.(*StorageWriteError); !ok {
		t.Fatalf("expected *StorageWriteError, got %T", err)
	}
}

func TestEncodePlantsNil(t *testing.T) {
	data, err := EncodePlants(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Fatalf("nil collection should encode as [], got %s", data)
	}
}

func TestEncodePlantsFieldNames(t *testing.T) {
	data, err := EncodePlants(samplePlants()[:1])
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"id"`, `"name"`, `"type"`, `"frequency"`, `"photo":null`, `"dateAdded"`} {
		if !containsString(string(data), field) {
			t.Fatalf("encoded document missing %s: %s", field, data)
		}
	}
}

func containsString(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	tests := []struct {
		key  string
		want int
	}{
		{SettingCalendarDays, 30},
		{SettingNoticeSeconds, 3},
		{SettingDefaultFrequency, 7},
	}
	for _, tt := range tests {
		if got := s.GetIntSetting(tt.key, -1); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting(SettingCalendarDays, "14"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting(SettingCalendarDays)
	if err != nil {
		t.Fatal(err)
	}
	if v != "14" {
		t.Fatalf("got %q, want 14", v)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("missing"); err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetIntSettingFallback(t *testing.T) {
	s := newTestStore(t)
	if got := s.GetIntSetting("missing", 42); got != 42 {
		t.Fatalf("missing key fallback = %d, want 42", got)
	}
	s.SetSetting("bad", "abc")
	if got := s.GetIntSetting("bad", 5); got != 5 {
		t.Fatalf("non-numeric fallback = %d, want 5", got)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 settings, got %d", len(settings))
	}
	// Sorted by key
	if settings[0].Key != SettingCalendarDays {
		t.Fatalf("first key = %q, want %q", settings[0].Key, SettingCalendarDays)
	}
}
