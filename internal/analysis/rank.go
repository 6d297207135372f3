package analysis

import (
	"sort"

	"intraday-arb/internal/model"
)

// RankBySpread computes stats per product and sorts descending by the
// p95-p05 price spread. Equal spreads are ordered by product label.
func RankBySpread(byProduct map[model.ProductCode][]model.Trade) []ProductStats {
	out := make([]ProductStats, 0, len(byProduct))
	for _, trades := range byProduct {
		if len(trades) == 0 {
			continue
		}
		out = append(out, ComputeProductStats(trades))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SpreadP95P05 != out[j].SpreadP95P05 {
			return out[i].SpreadP95P05 > out[j].SpreadP95P05
		}
		return out[i].Product.String() < out[j].Product.String()
	})
	return out
}

// Top returns at most n entries; n <= 0 returns all.
func Top(ranked []ProductStats, n int) []ProductStats {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
