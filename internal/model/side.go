package model

// Side is the book side a leg is taken from.
// Keep these values stable; they are written as trade_type in CSV output.
type Side string

const (
	// SideAsk buys the cheapest volume first.
	SideAsk Side = "ask"
	// SideBid sells into the most expensive volume first.
	SideBid Side = "bid"
)

func (s Side) Valid() bool {
	return s == SideAsk || s == SideBid
}

// Ahead reports whether price a has strictly higher priority than price b on this side.
func (s Side) Ahead(a, b float64) bool {
	if s == SideBid {
		return a > b
	}
	return a < b
}
