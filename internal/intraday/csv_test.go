package intraday

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"intraday-arb/internal/model"
)

func scenarioOpportunities(t *testing.T) []model.Opportunity {
	t.Helper()
	res, err := NewFinder(DefaultParams()).Run(context.Background(), scenario())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res.Opportunities
}

func TestFlattenOrder(t *testing.T) {
	rows := Flatten(scenarioOpportunities(t))
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	wantSide := []model.Side{model.SideAsk, model.SideAsk, model.SideBid, model.SideBid}
	wantPrice := []float64{40, 45, 100, 90}
	for i, r := range rows {
		if r.Side != wantSide[i] || r.Price != wantPrice[i] {
			t.Errorf("row %d = %s@%v, want %s@%v", i, r.Side, r.Price, wantSide[i], wantPrice[i])
		}
		if r.Spread != 54 || r.Profit != 270 {
			t.Errorf("row %d spread/profit = %v/%v", i, r.Spread, r.Profit)
		}
	}
}

func TestWriteOpportunitiesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOpportunitiesCSV(&buf, scenarioOpportunities(t)); err != nil {
		t.Fatalf("WriteOpportunitiesCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("records = %d, want header + 4", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(legHeader, ",") {
		t.Fatalf("header = %v", records[0])
	}
	first := records[1]
	if first[2] != "ask" || first[3] != "PH-14" || first[5] != "40" || first[6] != "3" {
		t.Fatalf("first row = %v", first)
	}
	if first[0] != "2024-03-01T00:00:00Z" || first[1] != "2024-03-01T00:05:00Z" {
		t.Fatalf("window bounds = %v, %v", first[0], first[1])
	}
}

func TestWriteOpportunitiesJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOpportunitiesJSON(&buf, nil); err != nil {
		t.Fatalf("WriteOpportunitiesJSON: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("empty output = %q", buf.String())
	}

	buf.Reset()
	if err := WriteOpportunitiesJSON(&buf, scenarioOpportunities(t)); err != nil {
		t.Fatalf("WriteOpportunitiesJSON: %v", err)
	}
	var decoded []model.Opportunity
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 1 || decoded[0].BidLegs[0].Product.String() != "PH-14" {
		t.Fatalf("decoded = %+v", decoded)
	}
	if !strings.Contains(buf.String(), `"ask_trades"`) {
		t.Fatalf("missing ask_trades key")
	}
}

func TestFormatReport(t *testing.T) {
	if got := FormatReport(nil); got != noOpportunities+"\n" {
		t.Fatalf("empty report = %q", got)
	}
	out := FormatReport(scenarioOpportunities(t))
	for _, want := range []string{
		"Weighted Ask Price: 42.00",
		"Weighted Bid Price: 96.00",
		"Spread: 54.00",
		"Total Profit: 270.00",
		"Found 1 trading opportunities:",
		"--- Opportunity 1 ---",
		"Product",
		"66.7%",
		"100.0%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReportRounding(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want string
	}{
		{2.675, "2.67"},
		{1.005, "1.00"},
		{-3.14159, "-3.14"},
		{42, "42.00"},
	} {
		if got := round(tc.in, 2); got != tc.want {
			t.Errorf("round(%v, 2) = %q, want %q", tc.in, got, tc.want)
		}
	}
	for _, tc := range []struct {
		in   float64
		want string
	}{
		{0.0025, "0.2"},
		{0.0035, "0.4"},
		{2.0 / 3.0, "66.7"},
		{1, "100.0"},
	} {
		if got := usagePercent(tc.in); got != tc.want {
			t.Errorf("usagePercent(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
