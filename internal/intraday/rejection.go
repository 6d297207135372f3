package intraday

// Rejection is why a window produced no opportunity.
// These are expected outcomes, not errors.
type Rejection string

const (
	Accepted         Rejection = "none"
	InsufficientData Rejection = "insufficient_data"
	UnfillableAsk    Rejection = "unfillable_ask"
	UnfillableBid    Rejection = "unfillable_bid"
	BelowThreshold   Rejection = "below_threshold"
	OutsideSession   Rejection = "outside_session"
)

// Rejections lists every outcome in report order.
var Rejections = []Rejection{
	Accepted,
	InsufficientData,
	UnfillableAsk,
	UnfillableBid,
	BelowThreshold,
	OutsideSession,
}
