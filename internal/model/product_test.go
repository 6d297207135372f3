package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestProductCodeFor(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2024, 1, 1, h, m, 0, 0, time.UTC) }

	cases := []struct {
		end      time.Time
		duration float64
		want     string
	}{
		{at(14, 0), 60, "PH-14"},
		{at(0, 0), 60, "PH-00"},
		{at(14, 0), 30, "HH-28"},
		{at(14, 30), 30, "HH-29"},
		{at(14, 0), 15, "QH-56"},
		{at(14, 45), 15, "QH-59"},
		{at(23, 15), 15, "QH-93"},
		{at(14, 0), 45, "Unknown"},
		{at(14, 0), 0, "Unknown"},
	}
	for _, tc := range cases {
		got := ProductCodeFor(tc.end, tc.duration).String()
		if got != tc.want {
			t.Errorf("ProductCodeFor(%s, %v) = %s, want %s", tc.end.Format("15:04"), tc.duration, got, tc.want)
		}
	}
}

func TestProductCodeUsesWallClockOfDeliveryEnd(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	end := time.Date(2024, 1, 1, 14, 0, 0, 0, cet)
	if got := ProductCodeFor(end, 60).String(); got != "PH-14" {
		t.Fatalf("got %s, want PH-14", got)
	}
}

func TestParseProductCode(t *testing.T) {
	for _, s := range []string{"PH-14", "HH-03", "QH-95", "Unknown"} {
		p, err := ParseProductCode(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if p.String() != s {
			t.Fatalf("parse %q round-tripped to %q", s, p.String())
		}
	}

	for _, s := range []string{"XX-01", "PH", "PH-abc", "PH--1"} {
		if _, err := ParseProductCode(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestProductCodeJSON(t *testing.T) {
	tr := Trade{Product: ProductCode{Kind: ProductHalfHour, Index: 7}}
	raw, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Trade
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Product != tr.Product {
		t.Fatalf("got %v want %v", back.Product, tr.Product)
	}
}

func TestSideAhead(t *testing.T) {
	if !SideAsk.Ahead(40, 45) || SideAsk.Ahead(45, 40) {
		t.Fatalf("ask side should prefer lower prices")
	}
	if !SideBid.Ahead(100, 90) || SideBid.Ahead(90, 100) {
		t.Fatalf("bid side should prefer higher prices")
	}
	if SideAsk.Ahead(40, 40) || SideBid.Ahead(40, 40) {
		t.Fatalf("equal prices must not be ahead of each other")
	}
}

func TestLegUsage(t *testing.T) {
	l := Leg{Volume: 2, AvailableVolume: 3}
	if got := l.Usage(); got < 0.666 || got > 0.667 {
		t.Fatalf("usage=%v", got)
	}
	if (Leg{Volume: 0, AvailableVolume: 0}).Usage() != 0 {
		t.Fatalf("usage of empty quote should be 0")
	}
}

func TestProductKindString(t *testing.T) {
	cases := map[ProductKind]string{
		ProductPowerHour:   "power_hour",
		ProductHalfHour:    "half_hour",
		ProductQuarterHour: "quarter_hour",
		ProductUnknown:     "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(k), got, want)
		}
	}
}
