package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"intraday-arb/internal/model"
)

// QuarterHourPolicy decides how 15-minute volumes are normalized.
type QuarterHourPolicy string

const (
	// QuarterHourKeep leaves 15-minute volumes as published.
	QuarterHourKeep QuarterHourPolicy = "keep"
	// QuarterHourQuarter divides 15-minute volumes by 4.
	QuarterHourQuarter QuarterHourPolicy = "quarter"
)

func (p QuarterHourPolicy) Valid() bool {
	return p == "" || p == QuarterHourKeep || p == QuarterHourQuarter
}

type NormalizeOptions struct {
	QuarterHour QuarterHourPolicy
	// KeepDuplicates disables dropping of identical rows.
	KeepDuplicates bool
}

// NormalizeStats counts what happened to each raw row.
type NormalizeStats struct {
	Rows         int `json:"rows"`
	Kept         int `json:"kept"`
	BadTimestamp int `json:"bad_timestamp"`
	BadNumber    int `json:"bad_number"`
	Duplicates   int `json:"duplicates"`
	Unknown      int `json:"unknown_product"`
}

var ErrMissingColumn = errors.New("missing required column")

const (
	colDeliveryStart = "deliverystart"
	colDeliveryEnd   = "deliveryend"
	colExecutionTime = "executiontime"
	colPrice         = "price"
	colVolume        = "volume"
	colProductCode   = "productcode"
)

var requiredColumns = []string{colDeliveryStart, colDeliveryEnd, colExecutionTime, colPrice, colVolume}

// columnKey folds "Product Code", "product_code" and "ProductCode" together.
func columnKey(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", "_", "").Replace(name)
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[columnKey(h)] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return idx, nil
}

// ReadRawTrades reads an exchange trade export and normalizes it:
//   - rows with an unparseable timestamp, price or volume are dropped
//   - execution time is converted to UTC, naive values are taken as UTC
//   - product code is derived from delivery end and duration
//   - 30-minute volumes are halved, 15-minute volumes follow opts.QuarterHour
//   - identical rows are dropped, first one wins
//
// Only I/O failures and a missing required column are errors.
func ReadRawTrades(r io.Reader, opts NormalizeOptions) ([]model.Trade, NormalizeStats, error) {
	return readTrades(r, opts, fileRaw)
}

type fileKind int

const (
	fileRaw fileKind = iota
	fileProcessed
	// fileDetect treats files with a product code column as processed.
	fileDetect
)

func readTrades(r io.Reader, opts NormalizeOptions, kind fileKind) ([]model.Trade, NormalizeStats, error) {
	var stats NormalizeStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	idx, err := headerIndex(header)
	if err != nil {
		return nil, stats, err
	}
	productCol, hasProduct := idx[colProductCode]
	if kind == fileDetect {
		kind = fileRaw
		if hasProduct {
			kind = fileProcessed
		}
	}

	trades := []model.Trade{}
	seen := map[string]struct{}{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Rows+2, err)
		}
		stats.Rows++

		field := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		start, ok1 := ParseTime(field(colDeliveryStart))
		end, ok2 := ParseTime(field(colDeliveryEnd))
		exec, ok3 := ParseTime(field(colExecutionTime))
		if !ok1 || !ok2 || !ok3 {
			stats.BadTimestamp++
			continue
		}
		price, ok1 := parseFloat(field(colPrice))
		volume, ok2 := parseFloat(field(colVolume))
		if !ok1 || !ok2 {
			stats.BadNumber++
			continue
		}

		t := model.Trade{
			Price:         price,
			Volume:        volume,
			DeliveryStart: start,
			DeliveryEnd:   end,
			ExecutionTime: exec.UTC(),
		}
		minutes := t.DurationMinutes()
		t.Product = model.ProductCodeFor(end, minutes)

		if kind == fileProcessed {
			if hasProduct && productCol < len(rec) {
				if p, err := model.ParseProductCode(rec[productCol]); err == nil {
					t.Product = p
				}
			}
		} else {
			switch {
			case minutes == 30:
				t.Volume /= 2
			case minutes == 15 && opts.QuarterHour == QuarterHourQuarter:
				t.Volume /= 4
			}
		}
		if !opts.KeepDuplicates {
			// Rows are duplicates only when every column matches.
			k := strings.Join(rec, "\x1f")
			if _, dup := seen[k]; dup {
				stats.Duplicates++
				continue
			}
			seen[k] = struct{}{}
		}
		if t.Product.IsUnknown() {
			stats.Unknown++
		}
		trades = append(trades, t)
	}
	stats.Kept = len(trades)
	return trades, stats, nil
}
