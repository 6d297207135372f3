package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"intraday-arb/internal/config"
	"intraday-arb/internal/intraday"
	"intraday-arb/internal/logging"
	"intraday-arb/internal/model"
)

// Demo:
// - Build four trades of one power-hour product inside a single 5-minute window
// - Run the finder with the default parameters (or --config / flags)
// - Print the report, optionally write the flattened leg CSV
func main() {
	cfgPath := flag.String("config", "", "Path to YAML/TOML config (optional)")
	minSpread := flag.Float64("min-spread", 50, "Minimum spread in EUR/MWh")
	outCSV := flag.String("out", "", "Optional path to write the leg CSV (e.g. outputs/demo.csv)")
	verbose := flag.Bool("v", false, "Log each opportunity")
	flag.Parse()

	cfg := config.Defaults()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		cfg = *loaded
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "min-spread" {
			cfg.Scan.MinSpread = *minSpread
		}
	})
	if *verbose {
		cfg.Log.Level = "debug"
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		panic(err)
	}

	trades := demoTrades()
	fmt.Printf("Loaded %d trades, window=%s volume=%.1f MW min_spread=%.1f EUR/MWh\n\n",
		len(trades), cfg.Scan.WindowLength, cfg.Scan.VolumeTarget, cfg.Scan.MinSpread)

	finder := intraday.NewFinder(cfg.Scan.ToParams(), intraday.WithLogger(log))
	res, err := finder.Run(context.Background(), trades)
	if err != nil {
		panic(err)
	}

	fmt.Print(intraday.FormatReport(res.Opportunities))

	if *outCSV != "" {
		f, err := os.Create(*outCSV)
		if err != nil {
			panic(err)
		}
		if err := intraday.WriteOpportunitiesCSV(f, res.Opportunities); err != nil {
			panic(err)
		}
		if err := f.Close(); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	fmt.Printf("\nDone. windows=%d opportunities=%d total profit=%.2f EUR\n",
		res.Stats.Windows, res.Stats.Opportunities, res.Stats.TotalProfit)
}

// demoTrades: asks 40 and 45, bids 100 and 90, 3 MW each, one minute apart.
// With a 5 MW target: ask 42, bid 96, spread 54, profit 270.
func demoTrades() []model.Trade {
	deliveryStart := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	deliveryEnd := deliveryStart.Add(time.Hour)
	exec := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	prices := []float64{40, 45, 100, 90}
	trades := make([]model.Trade, len(prices))
	for i, p := range prices {
		trades[i] = model.Trade{
			Product:       model.ProductCodeFor(deliveryEnd, 60),
			Price:         p,
			Volume:        3,
			DeliveryStart: deliveryStart,
			DeliveryEnd:   deliveryEnd,
			ExecutionTime: exec.Add(time.Duration(i) * time.Minute),
		}
	}
	return trades
}
