// Package api wires the HTTP routes.
package api

import (
	"net/http"

	"intraday-arb/internal/api/handlers"
	"intraday-arb/internal/api/middleware"
	"intraday-arb/internal/config"
	"intraday-arb/internal/metrics"
	"intraday-arb/internal/output"
	"intraday-arb/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Deps are the long-lived collaborators of the router. Sink may be nil.
type Deps struct {
	Config  *config.Config
	Store   store.ResultStore
	Metrics *metrics.Recorder
	Sink    output.Sink
	Log     zerolog.Logger
}

// NewRouter builds the gin engine with middleware and all /api/v1 routes.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Server.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.ErrorHandler(d.Log))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.Metrics(d.Metrics))

	trades := handlers.TradeSource{
		DataDir:   cfg.Server.DataDir,
		Normalize: cfg.Normalize.Options(),
	}
	presetHandler := handlers.NewPresetHandler(cfg.Server.PresetDir, d.Log)
	scanHandler := handlers.NewScanHandler(handlers.ScanDeps{
		Trades:   trades,
		Presets:  presetHandler,
		Base:     cfg.Scan,
		Store:    d.Store,
		Sink:     d.Sink,
		Observer: d.Metrics,
		Log:      d.Log,
	})
	statsHandler := handlers.NewStatsHandler(trades)
	parameterHandler := handlers.NewParameterHandler(cfg.Scan)
	datasetHandler := handlers.NewDatasetHandler(cfg.Server.DataDir)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/scan", scanHandler.RunScan)
		v1.GET("/scan/:id/legs", scanHandler.GetLegs)
		v1.POST("/scan/compare", scanHandler.CompareScans)

		v1.POST("/stats", statsHandler.RankProducts)
		v1.GET("/products", handlers.LookupProduct)
		v1.GET("/parameters", parameterHandler.ListParameters)
		v1.GET("/presets", presetHandler.ListPresets)
		v1.GET("/datasets", datasetHandler.ListDatasets)
	}

	router.NoRoute(middleware.NotFound)
	return router
}
