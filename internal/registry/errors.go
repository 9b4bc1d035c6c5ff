package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sadopc/plantcare/internal/store"
)

// MsgRequiredFields is shown whenever a submitted plant is incomplete.
const MsgRequiredFields = "Please fill in all required fields!"

// ValidationError rejects a submission before any record is created.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// ImportFormatError rejects an import file; nothing is written.
type ImportFormatError struct {
	Err error
}

func (e *ImportFormatError) Error() string {
	return fmt.Sprintf("Invalid file format: %v", e.Err)
}

func (e *ImportFormatError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsImportFormat reports whether err is an *ImportFormatError.
func IsImportFormat(err error) bool {
	var v *ImportFormatError
	return errors.As(err, &v)
}

// IsStorageWrite reports whether err is a *store.StorageWriteError.
func IsStorageWrite(err error) bool {
	var v *store.StorageWriteError
	return errors.As(err, &v)
}
