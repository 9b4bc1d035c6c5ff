package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/plantcare/internal/schedule"
	"github.com/sadopc/plantcare/internal/store"
)

var csvHeader = []string{"ID", "Name", "Type", "Frequency", "Date Added", "Next Watering", "Has Photo"}

// ToCSV writes a flat listing of the collection to path. It is a report,
// not an import format.
func ToCSV(plants []store.Plant, today time.Time, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, plants, today); err != nil {
		return err
	}
	return f.Close()
}

func WriteCSV(out io.Writer, plants []store.Plant, today time.Time) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, p := range plants {
		next := ""
		if due := schedule.NextDue(p, today); !due.IsZero() {
			next = due.Format("2006-01-02")
		}
		row := []string{
			p.ID,
			p.Name,
			p.Type,
			strconv.Itoa(p.Frequency),
			p.DateAdded.UTC().Format(time.RFC3339),
			next,
			yesNo(p.HasPhoto()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
