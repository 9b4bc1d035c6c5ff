package export

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/sadopc/plantcare/internal/store"
)

// DefaultFilename is the suggested name for a JSON export.
const DefaultFilename = "plant-care-data.json"

// MaxImportBytes caps the size of an import file.
const MaxImportBytes = 64 << 20

// Marshal renders the collection as the pretty-printed plant document. The
// output is exactly what Import accepts.
func Marshal(plants []store.Plant) ([]byte, error) {
	if plants == nil {
		plants = []store.Plant{}
	}
	data, err := json.MarshalIndent(plants, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return data, nil
}

// ToJSON writes the plant document to path. The file is written to a
// temporary name first and renamed into place.
func ToJSON(plants []store.Plant, path string) error {
	data, err := Marshal(plants)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".plantcare-export-*")
	if err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write json file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// ReadFile loads an import file. Parsing is left to the registry so a
// malformed document never touches the collection.
func ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read import file: %s is a directory", path)
	}
	if info.Size() > MaxImportBytes {
		return nil, fmt.Errorf("read import file: %s exceeds %d bytes", path, MaxImportBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return data, nil
}
