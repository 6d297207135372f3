package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"intraday-arb/internal/model"
)

var processedHeader = []string{
	"DeliveryStart",
	"DeliveryEnd",
	"ExecutionTime",
	"Price",
	"Volume",
	"Duration",
	"Date",
	"Product Code",
}

// WriteProcessedCSV writes normalized trades. Volumes are written as stored,
// so reading the file back does not normalize them again.
func WriteProcessedCSV(w io.Writer, trades []model.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(processedHeader); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.DeliveryStart.Format(time.RFC3339Nano),
			t.DeliveryEnd.Format(time.RFC3339Nano),
			t.ExecutionTime.UTC().Format(time.RFC3339Nano),
			strconv.FormatFloat(t.Price, 'f', -1, 64),
			strconv.FormatFloat(t.Volume, 'f', -1, 64),
			strconv.FormatFloat(t.DurationMinutes(), 'f', -1, 64),
			t.DeliveryStart.Format("2006-01-02"),
			t.Product.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadProcessedCSV reads a file written by WriteProcessedCSV. The stored
// product code wins over the derived one when it parses.
func ReadProcessedCSV(r io.Reader) ([]model.Trade, NormalizeStats, error) {
	return readTrades(r, NormalizeOptions{KeepDuplicates: true}, fileProcessed)
}

// ReadTradesCSV reads either format, telling them apart by the presence of a
// product code column.
func ReadTradesCSV(r io.Reader, opts NormalizeOptions) ([]model.Trade, NormalizeStats, error) {
	return readTrades(r, opts, fileDetect)
}

// NormalizeFile reads a raw export at rawPath and writes the processed file
// to outPath, creating its directory.
func NormalizeFile(rawPath, outPath string, opts NormalizeOptions) ([]model.Trade, NormalizeStats, error) {
	in, err := os.Open(rawPath)
	if err != nil {
		return nil, NormalizeStats{}, fmt.Errorf("open raw trades: %w", err)
	}
	defer in.Close()

	trades, stats, err := ReadRawTrades(in, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("normalize %s: %w", rawPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, stats, fmt.Errorf("failed to create directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return nil, stats, fmt.Errorf("create processed file: %w", err)
	}
	if err := WriteProcessedCSV(out, trades); err != nil {
		out.Close()
		return nil, stats, fmt.Errorf("write processed file: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, stats, err
	}
	return trades, stats, nil
}

// LoadTradesCSV opens path and reads it with ReadTradesCSV.
func LoadTradesCSV(path string, opts NormalizeOptions) ([]model.Trade, NormalizeStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NormalizeStats{}, err
	}
	defer f.Close()
	return ReadTradesCSV(f, opts)
}
