package intraday

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"intraday-arb/internal/model"
)

const noOpportunities = "No trading opportunities found meeting the criteria."

// FormatReport renders opportunities for the console. Prices and volumes are
// shown to 2 dp, usage to 1 dp.
func FormatReport(opps []model.Opportunity) string {
	if len(opps) == 0 {
		return noOpportunities + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d trading opportunities:\n", len(opps))
	for i, o := range opps {
		fmt.Fprintf(&b, "\n--- Opportunity %d ---\n", i+1)
		fmt.Fprintf(&b, "Time Window: %s to %s\n",
			o.WindowStart.Format("2006-01-02 15:04:05"), o.WindowEnd.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "Weighted Ask Price: %s EUR/MWh\n", round(o.AskWeightedPrice, 2))
		fmt.Fprintf(&b, "Weighted Bid Price: %s EUR/MWh\n", round(o.BidWeightedPrice, 2))
		fmt.Fprintf(&b, "Spread: %s EUR/MWh\n", round(o.Spread, 2))
		fmt.Fprintf(&b, "Total Profit: %s EUR\n", round(o.Profit, 2))
		b.WriteString("\nBuy Opportunities (ASK):\n")
		writeLegTable(&b, o.AskLegs)
		b.WriteString("\nSell Opportunities (BID):\n")
		writeLegTable(&b, o.BidLegs)
	}
	return b.String()
}

func writeLegTable(w io.Writer, legs []model.Leg) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Product\tTime\tPrice\tVolume\tUsage")
	for _, l := range legs {
		usage := usagePercent(l.Usage())
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\n",
			l.Product,
			l.Time.Format("2006-01-02 15:04:05"),
			round(l.Price, 2),
			round(l.Volume, 2),
			usage,
		)
	}
	_ = tw.Flush()
}

// round formats the exact binary value of x, so 2.675 prints as 2.67.
func round(x float64, places int) string {
	return strconv.FormatFloat(x, 'f', places, 64)
}

// usagePercent scales a fraction to percent in decimal and rounds half to
// even, so 0.0025 prints as 0.2.
func usagePercent(frac float64) string {
	return decimal.NewFromFloat(frac).Mul(decimal.NewFromInt(100)).RoundBank(1).StringFixed(1)
}
