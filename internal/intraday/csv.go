package intraday

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"intraday-arb/internal/model"
)

var legHeader = []string{
	"window_start",
	"window_end",
	"trade_type",
	"product",
	"time",
	"price",
	"volume",
	"available_volume",
	"delivery_start",
	"delivery_end",
	"ask_weighted_price",
	"bid_weighted_price",
	"spread",
	"profit",
}

// WriteOpportunitiesCSV writes one row per leg.
func WriteOpportunitiesCSV(w io.Writer, opps []model.Opportunity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(legHeader); err != nil {
		return err
	}

	for _, r := range Flatten(opps) {
		row := []string{
			fmtTime(r.WindowStart),
			fmtTime(r.WindowEnd),
			string(r.Side),
			r.Product.String(),
			fmtTime(r.Time),
			fmtFloat(r.Price),
			fmtFloat(r.Volume),
			fmtFloat(r.AvailableVolume),
			fmtTime(r.DeliveryStart),
			fmtTime(r.DeliveryEnd),
			fmtFloat(r.AskWeightedPrice),
			fmtFloat(r.BidWeightedPrice),
			fmtFloat(r.Spread),
			fmtFloat(r.Profit),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteOpportunitiesJSON writes the nested opportunity list, indented.
func WriteOpportunitiesJSON(w io.Writer, opps []model.Opportunity) error {
	if opps == nil {
		opps = []model.Opportunity{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(opps)
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// fmtFloat keeps full precision so the CSV round-trips.
func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
