package intraday

import (
	"time"

	"intraday-arb/internal/model"
)

// Stats summarizes one finder run.
type Stats struct {
	Trades        int               `json:"trades"`
	Windows       int               `json:"windows"`
	Evaluated     int               `json:"evaluated"`
	Opportunities int               `json:"opportunities"`
	Rejections    map[Rejection]int `json:"rejections"`
	TotalProfit   float64           `json:"total_profit"`
}

// Result is the output of one run: accepted opportunities in ascending
// window order plus run statistics.
type Result struct {
	ID            string              `json:"id"`
	CreatedAt     time.Time           `json:"created_at"`
	Params        Params              `json:"params"`
	Opportunities []model.Opportunity `json:"opportunities"`
	Stats         Stats               `json:"stats"`
}

// LegRow is one flattened leg. This is the persisted "what to trade" artifact.
type LegRow struct {
	WindowStart      time.Time         `json:"window_start"`
	WindowEnd        time.Time         `json:"window_end"`
	Side             model.Side        `json:"trade_type"`
	Product          model.ProductCode `json:"product"`
	Time             time.Time         `json:"time"`
	Price            float64           `json:"price"`
	Volume           float64           `json:"volume"`
	AvailableVolume  float64           `json:"available_volume"`
	DeliveryStart    time.Time         `json:"delivery_start"`
	DeliveryEnd      time.Time         `json:"delivery_end"`
	AskWeightedPrice float64           `json:"ask_weighted_price"`
	BidWeightedPrice float64           `json:"bid_weighted_price"`
	Spread           float64           `json:"spread"`
	Profit           float64           `json:"profit"`
}

// Flatten emits one row per leg, ask legs before bid legs for each
// opportunity, preserving consumption order.
func Flatten(opps []model.Opportunity) []LegRow {
	n := 0
	for _, o := range opps {
		n += len(o.AskLegs) + len(o.BidLegs)
	}
	rows := make([]LegRow, 0, n)
	for _, o := range opps {
		for _, side := range []model.Side{model.SideAsk, model.SideBid} {
			for _, l := range o.Legs(side) {
				rows = append(rows, LegRow{
					WindowStart:      o.WindowStart,
					WindowEnd:        o.WindowEnd,
					Side:             side,
					Product:          l.Product,
					Time:             l.Time,
					Price:            l.Price,
					Volume:           l.Volume,
					AvailableVolume:  l.AvailableVolume,
					DeliveryStart:    l.DeliveryStart,
					DeliveryEnd:      l.DeliveryEnd,
					AskWeightedPrice: o.AskWeightedPrice,
					BidWeightedPrice: o.BidWeightedPrice,
					Spread:           o.Spread,
					Profit:           o.Profit,
				})
			}
		}
	}
	return rows
}
