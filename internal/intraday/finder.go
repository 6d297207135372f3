package intraday

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"intraday-arb/internal/model"
)

// Observer receives per-window outcomes and run totals. Implementations must
// be safe for concurrent use.
type Observer interface {
	ObserveWindow(r Rejection)
	ObserveRun(s Stats, elapsed time.Duration)
}

type Option func(*Finder)

func WithLogger(l zerolog.Logger) Option {
	return func(f *Finder) { f.log = l }
}

func WithObserver(o Observer) Option {
	return func(f *Finder) { f.obs = o }
}

// Finder runs one scan configuration over a trade sequence. It holds no
// state between runs, so one Finder may serve concurrent calls.
type Finder struct {
	params Params
	log    zerolog.Logger
	obs    Observer
}

func NewFinder(p Params, opts ...Option) *Finder {
	f := &Finder{params: p, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Finder) Params() Params { return f.params }

// ValidateTrades rejects input the finder cannot reason about. Index i in the
// error is the position in trades.
func ValidateTrades(trades []model.Trade) error {
	for i, t := range trades {
		switch {
		case t.ExecutionTime.IsZero():
			return fmt.Errorf("%w: trade %d: missing execution time", ErrMalformedTrade, i)
		case t.DeliveryStart.IsZero() || t.DeliveryEnd.IsZero():
			return fmt.Errorf("%w: trade %d: missing delivery bounds", ErrMalformedTrade, i)
		case !t.DeliveryEnd.After(t.DeliveryStart):
			return fmt.Errorf("%w: trade %d: delivery end not after start", ErrMalformedTrade, i)
		case math.IsNaN(t.Price) || math.IsInf(t.Price, 0):
			return fmt.Errorf("%w: trade %d: price is not finite", ErrMalformedTrade, i)
		case math.IsNaN(t.Volume) || math.IsInf(t.Volume, 0) || t.Volume < 0:
			return fmt.Errorf("%w: trade %d: volume must be finite and >= 0", ErrMalformedTrade, i)
		}
	}
	return nil
}

// Run partitions trades into windows, evaluates each independently and
// returns accepted opportunities in ascending window order.
func (f *Finder) Run(ctx context.Context, trades []model.Trade) (*Result, error) {
	started := time.Now()
	p := f.params
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateTrades(trades); err != nil {
		return nil, err
	}
	session, _ := p.Session.compile()

	windows := Partition(trades, p.WindowLength)
	evals := make([]Evaluation, len(windows))

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range windows {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w := windows[i]
			if !session.contains(w.Start) {
				evals[i] = Evaluation{Window: w, Rejection: OutsideSession}
			} else {
				evals[i] = Evaluate(w, p)
			}
			if f.obs != nil {
				f.obs.ObserveWindow(evals[i].Rejection)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan windows: %w", err)
	}

	res := &Result{
		ID:            uuid.NewString(),
		CreatedAt:     started.UTC(),
		Params:        p,
		Opportunities: []model.Opportunity{},
		Stats: Stats{
			Trades:     len(trades),
			Windows:    len(windows),
			Rejections: map[Rejection]int{},
		},
	}
	for _, ev := range evals {
		res.Stats.Rejections[ev.Rejection]++
		if ev.Rejection != OutsideSession {
			res.Stats.Evaluated++
		}
		if ev.Opportunity == nil {
			continue
		}
		o := *ev.Opportunity
		res.Opportunities = append(res.Opportunities, o)
		res.Stats.TotalProfit += o.Profit
		f.log.Debug().
			Time("window_start", o.WindowStart).
			Float64("ask", o.AskWeightedPrice).
			Float64("bid", o.BidWeightedPrice).
			Float64("spread", o.Spread).
			Float64("profit", o.Profit).
			Msg("opportunity")
	}
	res.Stats.Opportunities = len(res.Opportunities)

	elapsed := time.Since(started)
	if f.obs != nil {
		f.obs.ObserveRun(res.Stats, elapsed)
	}
	f.log.Info().
		Str("run_id", res.ID).
		Int("trades", res.Stats.Trades).
		Int("windows", res.Stats.Windows).
		Int("opportunities", res.Stats.Opportunities).
		Float64("total_profit", res.Stats.TotalProfit).
		Dur("elapsed", elapsed).
		Msg("scan complete")
	return res, nil
}
