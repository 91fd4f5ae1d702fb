// Package export writes the final shortlist to disk as JSON Lines and a
// flattened CSV. Writes are atomic: content goes to a temp file in the
// target directory and is renamed into place, so a crashed run never
// leaves a half-written artifact.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/trackevents/trackevents/internal/model"
)

const (
	jsonlName = "events.jsonl"
	csvName   = "events.csv"
)

// csvHeader is the flattened column set: nested venue and organizer
// structs become venue_raw / venue_is_online / organizer_name columns.
var csvHeader = []string{
	"url",
	"title",
	"start_at",
	"end_at",
	"timezone",
	"venue_raw",
	"venue_is_online",
	"organizer_name",
	"description",
	"tags",
	"relevance_score",
	"matched_keywords",
	"relevance_reason",
}

// Events writes both artifacts into dir, creating it if needed, and
// returns their paths.
func Events(events []model.Event, dir string) (jsonlPath, csvPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	jsonlPath = filepath.Join(dir, jsonlName)
	if err := writeAtomic(jsonlPath, func(f *os.File) error {
		return writeJSONL(f, events)
	}); err != nil {
		return "", "", fmt.Errorf("write %s: %w", jsonlName, err)
	}

	csvPath = filepath.Join(dir, csvName)
	if err := writeAtomic(csvPath, func(f *os.File) error {
		return writeCSV(f, events)
	}); err != nil {
		return "", "", fmt.Errorf("write %s: %w", csvName, err)
	}

	return jsonlPath, csvPath, nil
}

// writeAtomic writes via a temp file in the same directory and renames
// into place.
func writeAtomic(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeJSONL(f *os.File, events []model.Event) error {
	enc := json.NewEncoder(f)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(f *os.File, events []model.Event) error {
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range events {
		if err := w.Write(csvRow(e)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func csvRow(e model.Event) []string {
	return []string{
		e.URL,
		e.Title,
		formatTime(e.StartAt),
		formatTime(e.EndAt),
		e.Timezone,
		e.Venue.Raw,
		strconv.FormatBool(e.Venue.IsOnline),
		e.Organizer.Name,
		e.Description,
		strings.Join(e.Tags, "; "),
		strconv.FormatFloat(e.RelevanceScore, 'f', 2, 64),
		strings.Join(e.MatchedKeywords, "; "),
		e.RelevanceReason,
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
