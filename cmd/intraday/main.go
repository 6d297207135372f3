package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"intraday-arb/internal/analysis"
	"intraday-arb/internal/config"
	"intraday-arb/internal/data"
	"intraday-arb/internal/intraday"
	"intraday-arb/internal/logging"
	"intraday-arb/internal/model"
	"intraday-arb/internal/output"

	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "normalize":
		err = cmdNormalize(os.Args[2:])
	case "scan":
		err = cmdScan(os.Args[2:])
	case "stats":
		err = cmdStats(os.Args[2:])
	case "vwap":
		err = cmdVWAP(os.Args[2:])
	case "product":
		err = cmdProduct(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  intraday normalize --raw data/raw_trades.csv --out data/processed_trades.csv")
	fmt.Println("  intraday scan --data data/processed_trades.csv [--config config.yaml] [--window 5m --volume 5 --min-spread 50]")
	fmt.Println("  intraday stats --data data/processed_trades.csv [--top 10]")
	fmt.Println("  intraday vwap --data data/processed_trades.csv --product PH-14 --out outputs/vwap.csv")
	fmt.Println("  intraday product --delivery-end 2024-01-01T14:00:00+01:00 --duration 60")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - --data accepts raw or processed CSV (detected from the header) or a JSON trade array")
	fmt.Println("  - scan writes trading_opportunities.json/.csv to the output dir and prints a report")
}

// loadEnv reads config (empty path = defaults + env) and builds the logger.
func loadEnv(cfgPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

func loadTrades(path string, opts data.NormalizeOptions) ([]model.Trade, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return data.LoadTradesJSON(path)
	}
	trades, _, err := data.LoadTradesCSV(path, opts)
	return trades, err
}

func cmdNormalize(args []string) error {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	rawPath := fs.String("raw", "data/raw_trades.csv", "Raw trade export (CSV)")
	outPath := fs.String("out", "data/processed_trades.csv", "Processed trade CSV to write")
	cfgPath := fs.String("config", "", "Optional YAML/TOML config (normalize section)")
	quarter := fs.String("quarter-hour-volume", "", "Override quarter-hour volume policy: keep or quarter")
	_ = fs.Parse(args)

	cfg, log, err := loadEnv(*cfgPath)
	if err != nil {
		return err
	}
	opts := cfg.Normalize.Options()
	if *quarter != "" {
		opts.QuarterHour = data.QuarterHourPolicy(*quarter)
		if !opts.QuarterHour.Valid() {
			return fmt.Errorf("invalid --quarter-hour-volume %q", *quarter)
		}
	}

	trades, stats, err := data.NormalizeFile(*rawPath, *outPath, opts)
	if err != nil {
		return err
	}
	log.Info().
		Int("rows", stats.Rows).
		Int("kept", stats.Kept).
		Int("bad_timestamp", stats.BadTimestamp).
		Int("bad_number", stats.BadNumber).
		Int("duplicates", stats.Duplicates).
		Int("unknown_product", stats.Unknown).
		Msg("normalized")
	fmt.Printf("Wrote %d trades to %s\n", len(trades), *outPath)
	return nil
}

func cmdScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	dataPath := fs.String("data", "data/processed_trades.csv", "Trade file (CSV or JSON)")
	cfgPath := fs.String("config", "", "Optional YAML/TOML config")
	window := fs.String("window", "", "Window length, e.g. 5m")
	volume := fs.Float64("volume", 0, "Volume target in MW per side")
	minSpread := fs.Float64("min-spread", 0, "Minimum spread in EUR/MWh")
	workers := fs.Int("workers", 0, "Concurrent windows (0 = all CPUs)")
	sessionStart := fs.String("session-start", "", "Daily session start HH:MM (UTC)")
	sessionEnd := fs.String("session-end", "", "Daily session end HH:MM (UTC)")
	outDir := fs.String("out-dir", "", "Output directory (overrides config)")
	quiet := fs.Bool("quiet", false, "Do not print the report")
	_ = fs.Parse(args)

	cfg, log, err := loadEnv(*cfgPath)
	if err != nil {
		return err
	}

	// Only flags given on the command line override the config, so an
	// explicit --min-spread 0 is honored.
	var override config.ScanOverride
	session := cfg.Scan.Session
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window":
			override.WindowLength = window
		case "volume":
			override.VolumeTarget = volume
		case "min-spread":
			override.MinSpread = minSpread
		case "workers":
			override.Workers = workers
		case "session-start":
			session.Start = *sessionStart
			override.Session = &session
		case "session-end":
			session.End = *sessionEnd
			override.Session = &session
		case "out-dir":
			cfg.Output.Dir = *outDir
		}
	})
	scan, err := config.MergeScan(cfg.Scan, override)
	if err != nil {
		return err
	}

	trades, err := loadTrades(*dataPath, cfg.Normalize.Options())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	finder := intraday.NewFinder(scan.ToParams(), intraday.WithLogger(log))
	res, err := finder.Run(ctx, trades)
	if err != nil {
		return err
	}

	sinks, err := output.Build(ctx, cfg.Output)
	if err != nil {
		return err
	}
	defer sinks.Close()
	if err := sinks.Write(ctx, res); err != nil {
		return err
	}

	if !*quiet {
		fmt.Print(intraday.FormatReport(res.Opportunities))
	}
	if cfg.Output.Dir != "" {
		fmt.Printf("\nResults saved to %s\n", cfg.Output.Dir)
	}
	return nil
}

func cmdStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	dataPath := fs.String("data", "data/processed_trades.csv", "Trade file (CSV or JSON)")
	cfgPath := fs.String("config", "", "Optional YAML/TOML config")
	top := fs.Int("top", 0, "Show only the top N products (0 = all)")
	_ = fs.Parse(args)

	cfg, _, err := loadEnv(*cfgPath)
	if err != nil {
		return err
	}
	trades, err := loadTrades(*dataPath, cfg.Normalize.Options())
	if err != nil {
		return err
	}

	ranked := analysis.Top(analysis.RankBySpread(data.GroupByProduct(trades)), *top)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "rank\tproduct\tcount\tp95-p05\tmin/max\tvwap\tvolume")
	for i, r := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.2f\t%.2f/%.2f\t%.2f\t%.2f\n",
			i+1, r.Product, r.Count, r.SpreadP95P05, r.MinPrice, r.MaxPrice, r.VWAP, r.TotalVolume)
	}
	return tw.Flush()
}

func cmdVWAP(args []string) error {
	fs := flag.NewFlagSet("vwap", flag.ExitOnError)
	dataPath := fs.String("data", "data/processed_trades.csv", "Trade file (CSV or JSON)")
	cfgPath := fs.String("config", "", "Optional YAML/TOML config")
	product := fs.String("product", "", "Product code, e.g. PH-14 (required)")
	outPath := fs.String("out", "outputs/vwap.csv", "Output CSV path")
	_ = fs.Parse(args)

	if *product == "" {
		return fmt.Errorf("--product is required (e.g. PH-14)")
	}
	code, err := model.ParseProductCode(*product)
	if err != nil {
		return err
	}
	cfg, _, err := loadEnv(*cfgPath)
	if err != nil {
		return err
	}
	trades, err := loadTrades(*dataPath, cfg.Normalize.Options())
	if err != nil {
		return err
	}
	points := analysis.CumulativeVWAP(data.GroupByProduct(trades)[code])

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	_ = w.Write([]string{"execution_time", "price", "cumulative_vwap"})
	for _, p := range points {
		_ = w.Write([]string{
			p.Time.Format(time.RFC3339Nano),
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.FormatFloat(p.VWAP, 'f', -1, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d points for %s to %s\n", len(points), code, *outPath)
	return nil
}

func cmdProduct(args []string) error {
	fs := flag.NewFlagSet("product", flag.ExitOnError)
	deliveryEnd := fs.String("delivery-end", "", "Delivery end timestamp (required)")
	duration := fs.Float64("duration", 60, "Delivery duration in minutes")
	_ = fs.Parse(args)

	end, ok := data.ParseTime(*deliveryEnd)
	if !ok {
		return fmt.Errorf("invalid --delivery-end %q", *deliveryEnd)
	}
	fmt.Println(model.ProductCodeFor(end, *duration))
	return nil
}
