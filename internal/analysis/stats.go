package analysis

import (
	"math"
	"sort"
	"time"

	"intraday-arb/internal/model"
)

// ProductStats is a product-level price summary used for ranking. Prices are
// EUR/MWh, volumes MW.
type ProductStats struct {
	Product model.ProductCode `json:"product"`

	FirstExecution time.Time `json:"first_execution"`
	LastExecution  time.Time `json:"last_execution"`

	Count int `json:"count"`

	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	MeanPrice float64 `json:"mean_price"`
	P05Price  float64 `json:"p05_price"`
	P95Price  float64 `json:"p95_price"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`

	TotalVolume float64 `json:"total_volume"`
	// VWAP is 0 when TotalVolume is 0.
	VWAP float64 `json:"vwap"`
}

// ComputeProductStats summarizes trades of a single product. The product is
// taken from the first trade.
func ComputeProductStats(trades []model.Trade) ProductStats {
	s := ProductStats{}
	if len(trades) == 0 {
		return s
	}
	s.Product = trades[0].Product
	s.Count = len(trades)
	s.FirstExecution = trades[0].ExecutionTime
	s.LastExecution = trades[0].ExecutionTime

	sum := 0.0
	notional := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(trades))
	for _, t := range trades {
		v := t.Price
		vals = append(vals, v)
		sum += v
		notional += v * t.Volume
		s.TotalVolume += t.Volume
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
		if t.ExecutionTime.Before(s.FirstExecution) {
			s.FirstExecution = t.ExecutionTime
		}
		if t.ExecutionTime.After(s.LastExecution) {
			s.LastExecution = t.ExecutionTime
		}
	}
	sort.Float64s(vals)
	s.MinPrice = minv
	s.MaxPrice = maxv
	s.MeanPrice = sum / float64(len(vals))
	s.P05Price = percentileSorted(vals, 0.05)
	s.P95Price = percentileSorted(vals, 0.95)
	s.SpreadP95P05 = s.P95Price - s.P05Price
	if s.TotalVolume > 0 {
		s.VWAP = notional / s.TotalVolume
	}
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
