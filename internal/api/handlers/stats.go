package handlers

import (
	"net/http"

	"intraday-arb/internal/analysis"
	"intraday-arb/internal/api/models"
	"intraday-arb/internal/data"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
)

// StatsHandler handles market statistics requests
type StatsHandler struct {
	trades TradeSource
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(trades TradeSource) *StatsHandler {
	return &StatsHandler{trades: trades}
}

// RankProducts handles POST /api/v1/stats
func (h *StatsHandler) RankProducts(c *gin.Context) {
	var req models.StatsRequest
	if err := defaults.Set(&req); err != nil {
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	trades, err := h.trades.Load(req.DataSource)
	if err != nil {
		writeTradeError(c, err)
		return
	}

	ranked := analysis.Top(analysis.RankBySpread(data.GroupByProduct(trades)), req.Limit)
	rankings := make([]models.Ranking, len(ranked))
	for i, s := range ranked {
		rankings[i] = models.Ranking{Rank: i + 1, ProductStats: s}
	}

	products := data.Products(trades)
	labels := make([]string, len(products))
	for i, p := range products {
		labels[i] = p.String()
	}

	c.JSON(http.StatusOK, models.StatsResponse{
		Trades:   len(trades),
		Products: labels,
		Rankings: rankings,
	})
}
