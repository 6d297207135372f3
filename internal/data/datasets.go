package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"intraday-arb/internal/model"
)

// Dataset is a trade file available in the data directory.
type Dataset struct {
	Name      string    `json:"name"`
	Format    string    `json:"format"` // csv or json
	SizeBytes int64     `json:"size_bytes"`
	UpdatedAt time.Time `json:"updated_at"`
}

var ErrDatasetNotFound = errors.New("dataset not found")

func datasetFormat(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	default:
		return ""
	}
}

// ListDatasets returns the CSV and JSON files directly under dir, sorted by
// name. A missing directory yields an empty list.
func ListDatasets(dir string) ([]Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Dataset{}, nil
		}
		return nil, fmt.Errorf("failed to read data dir: %w", err)
	}

	out := []Dataset{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format := datasetFormat(e.Name())
		if format == "" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Dataset{
			Name:      e.Name(),
			Format:    format,
			SizeBytes: info.Size(),
			UpdatedAt: info.ModTime().UTC(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// LoadDataset reads a dataset by file name. Names containing a path are
// rejected so callers cannot escape dir.
func LoadDataset(dir, name string, opts NormalizeOptions) ([]model.Trade, error) {
	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
		}
		return nil, err
	}

	switch datasetFormat(name) {
	case "csv":
		trades, _, err := LoadTradesCSV(path, opts)
		return trades, err
	case "json":
		return LoadTradesJSON(path)
	default:
		return nil, fmt.Errorf("%w: %q is not csv or json", ErrDatasetNotFound, name)
	}
}
