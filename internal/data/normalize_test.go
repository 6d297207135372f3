package data

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"intraday-arb/internal/model"
)

const rawCSV = `TradeId,DeliveryStart,DeliveryEnd,ExecutionTime,Price,Volume
1,2024-01-01 13:00:00+01:00,2024-01-01 14:00:00+01:00,2024-01-01 09:00:01+01:00,40.5,3
2,2024-01-01 13:30:00+01:00,2024-01-01 14:00:00+01:00,2024-01-01T08:01:00Z,41,4
3,2024-01-01 13:45:00+01:00,2024-01-01 14:00:00+01:00,2024-01-01 08:02:00,42,8
4,not a time,2024-01-01 14:00:00+01:00,2024-01-01 08:03:00,42,8
5,2024-01-01 13:00:00+01:00,2024-01-01 14:00:00+01:00,2024-01-01 08:04:00,abc,8
1,2024-01-01 13:00:00+01:00,2024-01-01 14:00:00+01:00,2024-01-01 09:00:01+01:00,40.5,3
7,2024-01-01 13:00:00+01:00,2024-01-01 13:20:00+01:00,2024-01-01 08:05:00,39,1
`

func TestReadRawTrades(t *testing.T) {
	trades, stats, err := ReadRawTrades(strings.NewReader(rawCSV), NormalizeOptions{})
	if err != nil {
		t.Fatalf("ReadRawTrades: %v", err)
	}
	want := NormalizeStats{Rows: 7, Kept: 4, BadTimestamp: 1, BadNumber: 1, Duplicates: 1, Unknown: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}

	ph := trades[0]
	if ph.Product.String() != "PH-14" || ph.Volume != 3 {
		t.Fatalf("power hour = %+v", ph)
	}
	if !ph.ExecutionTime.Equal(time.Date(2024, 1, 1, 8, 0, 1, 0, time.UTC)) || ph.ExecutionTime.Location() != time.UTC {
		t.Fatalf("execution time = %v, want UTC 08:00:01", ph.ExecutionTime)
	}

	hh := trades[1]
	if hh.Product.String() != "HH-28" || hh.Volume != 2 {
		t.Fatalf("half hour = %+v, want HH-28 with halved volume", hh)
	}

	qh := trades[2]
	if qh.Product.String() != "QH-56" || qh.Volume != 8 {
		t.Fatalf("quarter hour = %+v, want QH-56 with volume kept", qh)
	}
	if qh.ExecutionTime.Hour() != 8 {
		t.Fatalf("naive execution time should be read as UTC, got %v", qh.ExecutionTime)
	}

	if !trades[3].Product.IsUnknown() {
		t.Fatalf("20-minute delivery should be Unknown, got %v", trades[3].Product)
	}
}

func TestReadRawTradesQuarterPolicy(t *testing.T) {
	trades, _, err := ReadRawTrades(strings.NewReader(rawCSV), NormalizeOptions{QuarterHour: QuarterHourQuarter})
	if err != nil {
		t.Fatalf("ReadRawTrades: %v", err)
	}
	if trades[2].Volume != 2 {
		t.Fatalf("quarter hour volume = %v, want 2", trades[2].Volume)
	}
}

func TestReadRawTradesKeepDuplicates(t *testing.T) {
	trades, stats, err := ReadRawTrades(strings.NewReader(rawCSV), NormalizeOptions{KeepDuplicates: true})
	if err != nil {
		t.Fatalf("ReadRawTrades: %v", err)
	}
	if len(trades) != 5 || stats.Duplicates != 0 {
		t.Fatalf("kept %d trades, %d duplicates", len(trades), stats.Duplicates)
	}
}

func TestReadRawTradesDistinctTradeIDs(t *testing.T) {
	in := `TradeId,DeliveryStart,DeliveryEnd,ExecutionTime,Price,Volume
1,2024-01-01 13:00:00+01:00,2024-01-01 14:00:00+01:00,2024-01-01 09:00:01+01:00,40,3
2,2024-01-01 13:00:00+01:00,2024-01-01 14:00:00+01:00,2024-01-01 09:00:01+01:00,40,3
2,2024-01-01 13:00:00+01:00,2024-01-01 14:00:00+01:00,2024-01-01 09:00:01+01:00,40,3
`
	trades, stats, err := ReadRawTrades(strings.NewReader(in), NormalizeOptions{})
	if err != nil {
		t.Fatalf("ReadRawTrades: %v", err)
	}
	if len(trades) != 2 || stats.Kept != 2 || stats.Duplicates != 1 {
		t.Fatalf("kept %d trades, stats %+v; rows with different ids must both survive", len(trades), stats)
	}
}

func TestReadRawTradesMissingColumn(t *testing.T) {
	_, _, err := ReadRawTrades(strings.NewReader("DeliveryStart,DeliveryEnd,Price,Volume\n"), NormalizeOptions{})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	_, _, err = ReadRawTrades(strings.NewReader(""), NormalizeOptions{})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("empty input err = %v, want ErrMissingColumn", err)
	}
}

func TestProcessedRoundTrip(t *testing.T) {
	trades, _, err := ReadRawTrades(strings.NewReader(rawCSV), NormalizeOptions{})
	if err != nil {
		t.Fatalf("ReadRawTrades: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteProcessedCSV(&buf, trades); err != nil {
		t.Fatalf("WriteProcessedCSV: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "DeliveryStart,DeliveryEnd,ExecutionTime,Price,Volume,Duration,Date,Product Code\n") {
		t.Fatalf("header = %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	back, _, err := ReadProcessedCSV(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadProcessedCSV: %v", err)
	}
	if len(back) != len(trades) {
		t.Fatalf("read %d trades, want %d", len(back), len(trades))
	}
	for i := range trades {
		a, b := trades[i], back[i]
		if a.Product != b.Product || a.Price != b.Price || a.Volume != b.Volume ||
			!a.ExecutionTime.Equal(b.ExecutionTime) || !a.DeliveryEnd.Equal(b.DeliveryEnd) {
			t.Fatalf("trade %d: %+v != %+v", i, b, a)
		}
		if a.DeliveryEnd.Hour() != b.DeliveryEnd.Hour() {
			t.Fatalf("trade %d: delivery wall clock changed", i)
		}
	}

	// Detection picks the processed path, so HH volume is not halved twice.
	detected, _, err := ReadTradesCSV(bytes.NewReader(buf.Bytes()), NormalizeOptions{})
	if err != nil {
		t.Fatalf("ReadTradesCSV: %v", err)
	}
	if detected[1].Volume != 2 {
		t.Fatalf("half hour volume = %v after detection, want 2", detected[1].Volume)
	}
}

func TestNormalizeFile(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw.csv")
	if err := os.WriteFile(raw, []byte(rawCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "nested", "processed.csv")
	trades, stats, err := NormalizeFile(raw, out, NormalizeOptions{})
	if err != nil {
		t.Fatalf("NormalizeFile: %v", err)
	}
	if len(trades) != stats.Kept {
		t.Fatalf("trades %d != kept %d", len(trades), stats.Kept)
	}
	loaded, _, err := LoadTradesCSV(out, NormalizeOptions{})
	if err != nil {
		t.Fatalf("LoadTradesCSV: %v", err)
	}
	if len(loaded) != len(trades) {
		t.Fatalf("loaded %d, want %d", len(loaded), len(trades))
	}
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-01-01T08:00:00Z", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), true},
		{"2024-01-01 09:00:00+01:00", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), true},
		{"2024-01-01 08:00:00.250", time.Date(2024, 1, 1, 8, 0, 0, 250e6, time.UTC), true},
		{"2024-01-01T08:00:00", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), true},
		{"1704096000", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseTime(tc.in)
		if ok != tc.ok || (ok && !got.Equal(tc.want)) {
			t.Errorf("ParseTime(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDecodeTradesJSON(t *testing.T) {
	in := `[{"price": 40, "volume": 2,
		"delivery_start": "2024-01-01T13:30:00+01:00",
		"delivery_end": "2024-01-01T14:00:00+01:00",
		"execution_time": "2024-01-01T09:00:00+01:00"}]`
	trades, err := DecodeTradesJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeTradesJSON: %v", err)
	}
	if trades[0].Product.String() != "HH-28" {
		t.Fatalf("derived product = %v", trades[0].Product)
	}
	if trades[0].ExecutionTime.Location() != time.UTC {
		t.Fatalf("execution time not UTC")
	}

	if _, err := DecodeTradesJSON(strings.NewReader(`{"not":"an array"}`)); err == nil {
		t.Fatalf("expected error for non-array input")
	}
}

func TestDecodeTradesJSONExplicitProduct(t *testing.T) {
	in := `[{"product_code": "Unknown", "price": 40, "volume": 2,
		"delivery_start": "2024-01-01T13:00:00+01:00",
		"delivery_end": "2024-01-01T14:00:00+01:00",
		"execution_time": "2024-01-01T09:00:00+01:00"},
		{"product_code": "QH-01", "price": 41, "volume": 2,
		"delivery_start": "2024-01-01T13:00:00+01:00",
		"delivery_end": "2024-01-01T14:00:00+01:00",
		"execution_time": "2024-01-01T09:00:00+01:00"}]`
	trades, err := DecodeTradesJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeTradesJSON: %v", err)
	}
	if !trades[0].Product.IsUnknown() {
		t.Fatalf("explicit Unknown relabeled as %v", trades[0].Product)
	}
	if trades[1].Product.String() != "QH-01" {
		t.Fatalf("explicit label replaced by %v", trades[1].Product)
	}
}

func TestGroupByProduct(t *testing.T) {
	trades, _, _ := ReadRawTrades(strings.NewReader(rawCSV), NormalizeOptions{})
	groups := GroupByProduct(trades)
	if len(groups) != 4 || len(groups[model.UnknownProduct]) != 1 {
		t.Fatalf("groups = %v", groups)
	}
	products := Products(trades)
	got := make([]string, len(products))
	for i, p := range products {
		got[i] = p.String()
	}
	if strings.Join(got, ",") != "HH-28,PH-14,QH-56,Unknown" {
		t.Fatalf("products = %v", got)
	}
}
