package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"intraday-arb/internal/intraday"
)

// Recorder implements intraday.Observer using Prometheus. Each Recorder has
// its own registry.
type Recorder struct {
	reg *prometheus.Registry

	windowsTotal  *prometheus.CounterVec
	runsTotal     prometheus.Counter
	opportunities prometheus.Counter
	lastProfit    prometheus.Gauge
	runDuration   prometheus.Histogram
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		windowsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intraday_windows_total",
				Help: "Windows evaluated, by outcome",
			},
			[]string{"outcome"},
		),
		runsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "intraday_scans_total",
			Help: "Completed scans",
		}),
		opportunities: f.NewCounter(prometheus.CounterOpts{
			Name: "intraday_opportunities_total",
			Help: "Accepted opportunities across all scans",
		}),
		lastProfit: f.NewGauge(prometheus.GaugeOpts{
			Name: "intraday_last_scan_profit_eur",
			Help: "Total profit of the most recent scan",
		}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "intraday_scan_duration_seconds",
			Help:    "Duration of scans in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intraday_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intraday_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (r *Recorder) ObserveWindow(outcome intraday.Rejection) {
	r.windowsTotal.WithLabelValues(string(outcome)).Inc()
}

func (r *Recorder) ObserveRun(s intraday.Stats, elapsed time.Duration) {
	r.runsTotal.Inc()
	r.opportunities.Add(float64(s.Opportunities))
	r.lastProfit.Set(s.TotalProfit)
	r.runDuration.Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request. route is the matched pattern, not
// the raw path.
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves this recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

var _ intraday.Observer = (*Recorder)(nil)
