package intraday

import (
	"sort"
	"time"

	"intraday-arb/internal/model"
)

// GroupedQuote is every trade of one window sharing product, price and
// delivery bounds, with volumes summed. Time is the earliest execution.
type GroupedQuote struct {
	Product       model.ProductCode
	Price         float64
	DeliveryStart time.Time
	DeliveryEnd   time.Time
	Volume        float64
	Time          time.Time
}

func (q GroupedQuote) take(volume float64) model.Leg {
	return model.Leg{
		Product:         q.Product,
		Time:            q.Time,
		Price:           q.Price,
		Volume:          volume,
		DeliveryStart:   q.DeliveryStart,
		DeliveryEnd:     q.DeliveryEnd,
		AvailableVolume: q.Volume,
	}
}

type quoteKey struct {
	product model.ProductCode
	price   float64
	start   int64
	end     int64
}

// GroupQuotes collapses a window's trades into grouped quotes. The result is
// ordered by (product label, price, delivery start, delivery end); that order
// is the tie-break for equal prices during accumulation.
func GroupQuotes(trades []model.Trade) []GroupedQuote {
	index := map[quoteKey]int{}
	quotes := make([]GroupedQuote, 0, len(trades))
	for _, t := range trades {
		k := quoteKey{
			product: t.Product,
			price:   t.Price,
			start:   t.DeliveryStart.UnixNano(),
			end:     t.DeliveryEnd.UnixNano(),
		}
		i, ok := index[k]
		if !ok {
			index[k] = len(quotes)
			quotes = append(quotes, GroupedQuote{
				Product:       t.Product,
				Price:         t.Price,
				DeliveryStart: t.DeliveryStart,
				DeliveryEnd:   t.DeliveryEnd,
				Volume:        t.Volume,
				Time:          t.ExecutionTime,
			})
			continue
		}
		quotes[i].Volume += t.Volume
		if t.ExecutionTime.Before(quotes[i].Time) {
			quotes[i].Time = t.ExecutionTime
		}
	}

	sort.Slice(quotes, func(i, j int) bool {
		a, b := quotes[i], quotes[j]
		if pa, pb := a.Product.String(), b.Product.String(); pa != pb {
			return pa < pb
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		if !a.DeliveryStart.Equal(b.DeliveryStart) {
			return a.DeliveryStart.Before(b.DeliveryStart)
		}
		return a.DeliveryEnd.Before(b.DeliveryEnd)
	})
	return quotes
}
