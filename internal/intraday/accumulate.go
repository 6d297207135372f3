package intraday

import (
	"math"
	"sort"

	"intraday-arb/internal/model"
)

// Accumulate greedily fills target MW from quotes in side priority (ask:
// cheapest first, bid: dearest first). Each quote gives either its whole
// volume or the unmet remainder, whichever is smaller.
//
// Ordering is a stable sort on price alone, so equal prices keep the order
// they have in quotes. quotes is not modified.
//
// remaining > FillTolerance means the side could not be filled.
func Accumulate(quotes []GroupedQuote, side model.Side, target float64) (legs []model.Leg, remaining float64) {
	ranked := make([]GroupedQuote, len(quotes))
	copy(ranked, quotes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return side.Ahead(ranked[i].Price, ranked[j].Price)
	})

	remaining = target
	for _, q := range ranked {
		if remaining <= 0 {
			break
		}
		v := math.Min(q.Volume, remaining)
		legs = append(legs, q.take(v))
		remaining -= v
	}
	return legs, remaining
}

// WeightedPrice is sum(price*volume)/target. The divisor is the configured
// target, not the summed leg volume.
func WeightedPrice(legs []model.Leg, target float64) float64 {
	sum := 0.0
	for _, l := range legs {
		sum += l.Price * l.Volume
	}
	return sum / target
}
