package analysis

import (
	"sort"
	"time"

	"intraday-arb/internal/model"
)

// VWAPPoint is the running volume-weighted average price after one trade.
type VWAPPoint struct {
	Time  time.Time `json:"time"`
	VWAP  float64   `json:"vwap"`
	Price float64   `json:"price"`
}

// CumulativeVWAP walks trades in execution order and emits
// sum(price*volume)/sum(volume) after each one. Points are omitted while the
// cumulative volume is still zero. trades is not modified.
func CumulativeVWAP(trades []model.Trade) []VWAPPoint {
	ordered := make([]model.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ExecutionTime.Before(ordered[j].ExecutionTime)
	})

	out := make([]VWAPPoint, 0, len(ordered))
	notional, volume := 0.0, 0.0
	for _, t := range ordered {
		notional += t.Price * t.Volume
		volume += t.Volume
		if volume == 0 {
			continue
		}
		out = append(out, VWAPPoint{Time: t.ExecutionTime, VWAP: notional / volume, Price: t.Price})
	}
	return out
}
