package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/Nairod97425/Rag/internal/models"
)

var (
	// ErrNotFound is returned when the corpus file does not exist.
	ErrNotFound = errors.New("corpus file not found")
	// ErrMalformed is returned when the corpus file cannot be decoded as
	// a JSON array of entries.
	ErrMalformed = errors.New("malformed corpus")
)

// Defaults substituted for missing provenance fields. They are applied
// once, at decode time, so nothing downstream has to guess.
const (
	DefaultSource = "unknown"
	DefaultTitle  = "untitled"
)

// rawEntry mirrors the scraper's JSON output. Chunk ids may be numbers
// or strings depending on the scraper version, so they decode as any.
type rawEntry struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Chunks []struct {
		ID   any    `json:"id"`
		Text string `json:"text"`
	} `json:"chunks"`
}

// Load reads the corpus file at path and flattens it into indexed units
// ready for embedding. Entries without chunks contribute nothing. Missing
// url/title fields fall back to DefaultSource/DefaultTitle.
func Load(path string) ([]models.IndexedUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading corpus %s: %w", path, err)
	}

	var entries []rawEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var units []models.IndexedUnit
	for _, entry := range entries {
		source := entry.URL
		if source == "" {
			source = DefaultSource
		}
		title := entry.Title
		if title == "" {
			title = DefaultTitle
		}
		for _, chunk := range entry.Chunks {
			if chunk.Text == "" {
				continue
			}
			units = append(units, models.IndexedUnit{
				Text:    chunk.Text,
				Source:  source,
				Title:   title,
				ChunkID: formatChunkID(chunk.ID),
			})
		}
	}
	return units, nil
}

// formatChunkID normalizes the scraper's loosely typed chunk id to a
// string. JSON numbers arrive as float64 but ids are whole numbers.
func formatChunkID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
