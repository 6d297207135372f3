package intraday

import (
	"sort"
	"time"

	"intraday-arb/internal/model"
)

// Window is the half-open execution interval [Start, End) and the trades
// executed inside it, in execution-time order.
type Window struct {
	Start  time.Time
	End    time.Time
	Trades []model.Trade
}

// FloorToWindow floors t to a multiple of length counted from the Unix epoch,
// in UTC. Flooring from the epoch keeps bucket edges stable for lengths that
// do not divide a day.
func FloorToWindow(t time.Time, length time.Duration) time.Time {
	ns := t.UnixNano()
	d := int64(length)
	r := ns % d
	if r < 0 {
		r += d
	}
	return time.Unix(0, ns-r).UTC()
}

// Partition buckets trades by floored execution time. Only windows holding at
// least one trade are returned, in ascending start order.
func Partition(trades []model.Trade, length time.Duration) []Window {
	index := map[int64]int{}
	windows := []Window{}
	for _, t := range trades {
		start := FloorToWindow(t.ExecutionTime, length)
		key := start.UnixNano()
		i, ok := index[key]
		if !ok {
			i = len(windows)
			index[key] = i
			windows = append(windows, Window{Start: start, End: start.Add(length)})
		}
		windows[i].Trades = append(windows[i].Trades, t)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	for i := range windows {
		ts := windows[i].Trades
		sort.SliceStable(ts, func(a, b int) bool {
			return ts[a].ExecutionTime.Before(ts[b].ExecutionTime)
		})
	}
	return windows
}
