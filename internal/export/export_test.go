package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/plantcare/internal/store"
)

var today = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

func sampleData() []store.Plant {
	photo := "data:image/png;base64,iVBORw0KGgo="
	return []store.Plant{
		{
			ID:        "1704067200000",
			Name:      "Monstera",
			Type:      "Tropical",
			Frequency: 7,
			Photo:     &photo,
			DateAdded: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "1704067200001",
			Name:      "Fern",
			Type:      "Fern",
			Frequency: 2,
			DateAdded: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "1704844800000",
			Name:      "Cactus",
			Type:      "Succulent",
			Frequency: 30,
			DateAdded: time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC),
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plants.csv")

	if err := ToCSV(sampleData(), today, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "1704067200000" {
		t.Fatalf("ID = %q", row[0])
	}
	if row[1] != "Monstera" || row[2] != "Tropical" {
		t.Fatalf("name/type = %q/%q", row[1], row[2])
	}
	if row[3] != "7" {
		t.Fatalf("Frequency = %q, want 7", row[3])
	}
	if row[4] != "2024-01-01T00:00:00Z" {
		t.Fatalf("Date Added = %q", row[4])
	}
	// Jan 1 + 7k: next on or after Jan 10 is Jan 15.
	if row[5] != "2024-01-15" {
		t.Fatalf("Next Watering = %q, want 2024-01-15", row[5])
	}
	if row[6] != "yes" {
		t.Fatalf("Has Photo = %q, want yes", row[6])
	}

	if records[2][5] != "2024-01-11" {
		t.Fatalf("fern next watering = %q, want 2024-01-11", records[2][5])
	}
	if records[2][6] != "no" {
		t.Fatalf("fern Has Photo = %q, want no", records[2][6])
	}

	// Registered in the future: first due on its registration day.
	if records[3][5] != "2024-01-12" {
		t.Fatalf("cactus next watering = %q, want 2024-01-12", records[3][5])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, today, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, today, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	plants := []store.Plant{
		{
			ID:        "1",
			Name:      `Plant "Special"`,
			Type:      `leafy, green`,
			Frequency: 1,
			DateAdded: today,
		},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(plants, today, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][1] != `Plant "Special"` {
		t.Fatalf("name mangled: %q", records[1][1])
	}
	if records[1][2] != `leafy, green` {
		t.Fatalf("type mangled: %q", records[1][2])
	}
}

func TestWriteCSVToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleData()[:1], today); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "ID,Name,Type,Frequency,Date Added,Next Watering,Has Photo\n") {
		t.Fatalf("unexpected header: %q", buf.String())
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)

	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	plants, err := store.DecodePlants(data)
	if err != nil {
		t.Fatalf("exported document does not parse: %v", err)
	}
	if len(plants) != 3 {
		t.Fatalf("plants = %d, want 3", len(plants))
	}
	want := sampleData()
	for i := range want {
		if plants[i].ID != want[i].ID || plants[i].Name != want[i].Name || plants[i].Frequency != want[i].Frequency {
			t.Fatalf("plant %d = %+v, want %+v", i, plants[i], want[i])
		}
		if !plants[i].DateAdded.Equal(want[i].DateAdded) {
			t.Fatalf("plant %d dateAdded = %v", i, plants[i].DateAdded)
		}
	}
	if plants[0].Photo == nil || *plants[0].Photo != *want[0].Photo {
		t.Fatal("photo lost in round trip")
	}
	if plants[1].Photo != nil {
		t.Fatal("missing photo should stay null")
	}
}

func TestToJSONFieldNames(t *testing.T) {
	data, err := Marshal(sampleData()[1:2])
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"id"`, `"name"`, `"type"`, `"frequency"`, `"photo": null`, `"dateAdded"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("missing %s in %s", key, data)
		}
	}
}

func TestToJSONEmpty(t *testing.T) {
	data, err := Marshal(nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("empty export = %q, want []", data)
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plants.json")
	if err := os.WriteFile(path, []byte("old contents"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "old") {
		t.Fatal("export should replace the previous file")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temporary file left behind: %d entries", len(entries))
	}
}

// ============================================================
// ReadFile
// ============================================================

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadFileDirectory(t *testing.T) {
	if _, err := ReadFile(t.TempDir()); err == nil {
		t.Fatal("expected error for directory")
	}
}
