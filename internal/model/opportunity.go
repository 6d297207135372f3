package model

import "time"

// Leg is the part of a grouped quote consumed to fill the volume target.
// Volume <= AvailableVolume; AvailableVolume is the quote's full size so the
// fill ratio can be reported.
type Leg struct {
	Product         ProductCode `json:"product"`
	Time            time.Time   `json:"time"`
	Price           float64     `json:"price"`
	Volume          float64     `json:"volume"`
	DeliveryStart   time.Time   `json:"delivery_start"`
	DeliveryEnd     time.Time   `json:"delivery_end"`
	AvailableVolume float64     `json:"available_volume"`
}

// Usage is the consumed fraction of the quote in [0,1].
func (l Leg) Usage() float64 {
	if l.AvailableVolume == 0 {
		return 0
	}
	return l.Volume / l.AvailableVolume
}

// Opportunity is an accepted window: both sides filled to the volume target
// with a spread of at least the configured minimum.
//
// Spread = BidWeightedPrice - AskWeightedPrice (EUR/MWh)
// Profit = Spread * volume target (EUR)
type Opportunity struct {
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	AskLegs []Leg `json:"ask_trades"`
	BidLegs []Leg `json:"bid_trades"`

	AskWeightedPrice float64 `json:"ask_weighted_price"`
	BidWeightedPrice float64 `json:"bid_weighted_price"`
	Spread           float64 `json:"spread"`
	Profit           float64 `json:"profit"`
}

// Legs returns the legs of one side.
func (o Opportunity) Legs(side Side) []Leg {
	if side == SideBid {
		return o.BidLegs
	}
	return o.AskLegs
}
