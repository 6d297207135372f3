package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"intraday-arb/internal/intraday"
)

// FileSink writes trading_opportunities.json and .csv into Dir, replacing
// the files of any earlier run.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) Name() string { return "file" }

func (s *FileSink) Write(_ context.Context, res *intraday.Result) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeFile(filepath.Join(s.Dir, jsonFileName), func(f *os.File) error {
		return intraday.WriteOpportunitiesJSON(f, res.Opportunities)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(s.Dir, csvFileName), func(f *os.File) error {
		return intraday.WriteOpportunitiesCSV(f, res.Opportunities)
	})
}

// JSONPath and CSVPath name the files Write produces.
func (s *FileSink) JSONPath() string { return filepath.Join(s.Dir, jsonFileName) }
func (s *FileSink) CSVPath() string { return filepath.Join(s.Dir, csvFileName) }

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
