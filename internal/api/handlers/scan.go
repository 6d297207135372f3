package handlers

import (
	"context"
	"errors"
	"net/http"
	"runtime"

	"intraday-arb/internal/api/models"
	"intraday-arb/internal/config"
	"intraday-arb/internal/intraday"
	"intraday-arb/internal/model"
	"intraday-arb/internal/output"
	"intraday-arb/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ScanDeps are the collaborators of ScanHandler. Sink and Observer may be nil.
type ScanDeps struct {
	Trades   TradeSource
	Presets  *PresetHandler
	Base     config.ScanConfig
	Store    store.ResultStore
	Sink     output.Sink
	Observer intraday.Observer
	Log      zerolog.Logger
}

// ScanHandler handles scan-related requests
type ScanHandler struct {
	deps ScanDeps
}

// NewScanHandler creates a new scan handler
func NewScanHandler(deps ScanDeps) *ScanHandler {
	return &ScanHandler{deps: deps}
}

// RunScan handles POST /api/v1/scan
func (h *ScanHandler) RunScan(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	trades, err := h.deps.Trades.Load(req.DataSource)
	if err != nil {
		writeTradeError(c, err)
		return
	}

	base, ok := h.baseScan(c, req.Preset)
	if !ok {
		return
	}
	scan, err := config.MergeScan(base, req.Config)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}

	res, err := h.run(c.Request.Context(), scan, trades)
	if err != nil {
		writeScanError(c, err)
		return
	}

	if err := h.deps.Store.Put(c.Request.Context(), res); err != nil {
		abortWithError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	if h.deps.Sink != nil {
		// The result is already stored; a failed export is reported in the log only.
		if err := h.deps.Sink.Write(c.Request.Context(), res); err != nil {
			h.deps.Log.Warn().Err(err).Str("scan_id", res.ID).Msg("export scan result")
		}
	}

	response := models.ScanResponse{
		ID:      res.ID,
		Status:  "completed",
		Summary: summarize(res),
	}
	if req.Options.IncludeOpportunities {
		response.Opportunities = res.Opportunities
	}
	c.JSON(http.StatusOK, response)
}

// GetLegs handles GET /api/v1/scan/:id/legs
func (h *ScanHandler) GetLegs(c *gin.Context) {
	id := c.Param("id")
	res, err := h.deps.Store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "NOT_FOUND", "scan "+id+" not found or expired")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	legs := intraday.Flatten(res.Opportunities)
	c.JSON(http.StatusOK, models.LegsResponse{
		ID:    res.ID,
		Count: len(legs),
		Legs:  legs,
	})
}

// CompareScans handles POST /api/v1/scan/compare
func (h *ScanHandler) CompareScans(c *gin.Context) {
	var req models.CompareScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// Load data once
	trades, err := h.deps.Trades.Load(req.DataSource)
	if err != nil {
		writeTradeError(c, err)
		return
	}
	if err := intraday.ValidateTrades(trades); err != nil {
		abortWithError(c, http.StatusBadRequest, "MALFORMED_TRADE", err.Error())
		return
	}

	preset, ok := h.baseScan(c, req.Preset)
	if !ok {
		return
	}
	base, err := config.MergeScan(preset, req.BaseConfig)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}

	comparison := make([]models.ComparisonResult, len(req.Variations))
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, variation := range req.Variations {
		comparison[i].Name = variation.Name
		scan, err := config.MergeScan(base, variation.Config)
		if err != nil {
			comparison[i].Error = &models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()}
			continue
		}
		i := i
		g.Go(func() error {
			res, err := h.run(gctx, scan, trades)
			if errors.Is(err, intraday.ErrInvalidParams) {
				comparison[i].Error = &models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()}
				return nil
			}
			if err != nil {
				return err
			}
			summary := summarize(res)
			comparison[i].Summary = &summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		writeScanError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CompareScanResponse{
		Comparison: comparison,
	})
}

// baseScan returns the scan section a request starts from: a preset when one
// is named, otherwise the server's configured scan.
func (h *ScanHandler) baseScan(c *gin.Context, preset string) (config.ScanConfig, bool) {
	if preset == "" {
		return h.deps.Base, true
	}
	if h.deps.Presets == nil {
		abortWithError(c, http.StatusNotFound, "PRESET_NOT_FOUND", "presets are not configured")
		return config.ScanConfig{}, false
	}
	scan, err := h.deps.Presets.Resolve(preset)
	if err != nil {
		if errors.Is(err, errPresetNotFound) {
			abortWithError(c, http.StatusNotFound, "PRESET_NOT_FOUND", err.Error())
		} else {
			abortWithError(c, http.StatusBadRequest, "INVALID_PRESET", err.Error())
		}
		return config.ScanConfig{}, false
	}
	return scan, true
}

func (h *ScanHandler) run(ctx context.Context, scan config.ScanConfig, trades []model.Trade) (*intraday.Result, error) {
	finder := intraday.NewFinder(scan.ToParams(),
		intraday.WithLogger(h.deps.Log),
		intraday.WithObserver(h.deps.Observer),
	)
	return finder.Run(ctx, trades)
}

func writeScanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, intraday.ErrInvalidParams):
		abortWithError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
	case errors.Is(err, intraday.ErrMalformedTrade):
		abortWithError(c, http.StatusBadRequest, "MALFORMED_TRADE", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		abortWithError(c, http.StatusServiceUnavailable, "SCAN_CANCELLED", err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "SCAN_ERROR", err.Error())
	}
}

func summarize(res *intraday.Result) models.ScanSummary {
	s := models.ScanSummary{
		Params: res.Params,
		Stats:  res.Stats,
	}
	if n := len(res.Opportunities); n > 0 {
		first := res.Opportunities[0].WindowStart
		last := res.Opportunities[n-1].WindowStart
		s.FirstWindow = &first
		s.LastWindow = &last
	}
	return s
}
