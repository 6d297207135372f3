package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"intraday-arb/internal/model"
)

// TradeRecord is a trade as it arrives in JSON. A product_code that is
// present, "Unknown" included, is kept as sent; an absent one is derived
// from the delivery period.
type TradeRecord struct {
	model.Trade
	ProductCode *model.ProductCode `json:"product_code,omitempty"`
}

// DecodeTradesJSON reads a JSON array of trades. Execution times are
// converted to UTC; a missing product code is derived from the delivery.
func DecodeTradesJSON(r io.Reader) ([]model.Trade, error) {
	var recs []TradeRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode trades: %w", err)
	}
	return FromRecords(recs), nil
}

func LoadTradesJSON(path string) ([]model.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTradesJSON(f)
}

// FromRecords normalizes trades that did not come through the CSV reader.
func FromRecords(recs []TradeRecord) []model.Trade {
	out := make([]model.Trade, len(recs))
	for i, r := range recs {
		t := r.Trade
		t.ExecutionTime = t.ExecutionTime.UTC()
		switch {
		case r.ProductCode != nil:
			t.Product = *r.ProductCode
		case !t.DeliveryEnd.IsZero():
			t.Product = model.ProductCodeFor(t.DeliveryEnd, t.DurationMinutes())
		}
		out[i] = t
	}
	return out
}

// GroupByProduct splits trades into product-keyed slices.
func GroupByProduct(trades []model.Trade) map[model.ProductCode][]model.Trade {
	out := map[model.ProductCode][]model.Trade{}
	for _, t := range trades {
		out[t.Product] = append(out[t.Product], t)
	}
	return out
}

// Products lists the distinct product codes in label order.
func Products(trades []model.Trade) []model.ProductCode {
	byProduct := GroupByProduct(trades)
	out := make([]model.ProductCode, 0, len(byProduct))
	for p := range byProduct {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
