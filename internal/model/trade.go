package model

import "time"

// Trade is one executed intraday trade after normalization.
// Units:
// - Price: EUR/MWh (may be negative)
// - Volume: MW per delivery period (half-hour volumes are already halved)
//
// ExecutionTime is always UTC. Delivery timestamps keep the wall clock they
// were published with, since the product code is derived from it.
type Trade struct {
	Product       ProductCode `json:"product_code"`
	Price         float64     `json:"price"`
	Volume        float64     `json:"volume"`
	DeliveryStart time.Time   `json:"delivery_start"`
	DeliveryEnd   time.Time   `json:"delivery_end"`
	ExecutionTime time.Time   `json:"execution_time"`
}

func (t Trade) Duration() time.Duration {
	return t.DeliveryEnd.Sub(t.DeliveryStart)
}

func (t Trade) DurationMinutes() float64 {
	return t.Duration().Minutes()
}
