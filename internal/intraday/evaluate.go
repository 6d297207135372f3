package intraday

import (
	"math"

	"intraday-arb/internal/model"
)

// Evaluation is the outcome of one window. Opportunity is set only when
// Rejection is Accepted.
type Evaluation struct {
	Window      Window
	Rejection   Rejection
	Opportunity *model.Opportunity

	// Residuals are kept for diagnostics on unfillable windows.
	AskRemaining float64
	BidRemaining float64
}

// Evaluate builds grouped quotes for w, fills both sides and applies the
// spread threshold. The ask side is checked first.
func Evaluate(w Window, p Params) Evaluation {
	ev := Evaluation{Window: w}
	if len(w.Trades) < 2 {
		ev.Rejection = InsufficientData
		return ev
	}

	quotes := GroupQuotes(w.Trades)
	askLegs, askRem := Accumulate(quotes, model.SideAsk, p.VolumeTarget)
	bidLegs, bidRem := Accumulate(quotes, model.SideBid, p.VolumeTarget)
	ev.AskRemaining = math.Max(askRem, 0)
	ev.BidRemaining = math.Max(bidRem, 0)

	if askRem > FillTolerance {
		ev.Rejection = UnfillableAsk
		return ev
	}
	if bidRem > FillTolerance {
		ev.Rejection = UnfillableBid
		return ev
	}

	ask := WeightedPrice(askLegs, p.VolumeTarget)
	bid := WeightedPrice(bidLegs, p.VolumeTarget)
	spread := bid - ask
	if spread < p.MinSpread {
		ev.Rejection = BelowThreshold
		return ev
	}

	ev.Rejection = Accepted
	ev.Opportunity = &model.Opportunity{
		WindowStart:      w.Start,
		WindowEnd:        w.End,
		AskLegs:          askLegs,
		BidLegs:          bidLegs,
		AskWeightedPrice: ask,
		BidWeightedPrice: bid,
		Spread:           spread,
		Profit:           spread * p.VolumeTarget,
	}
	return ev
}
