package handlers

import (
	"net/http"

	"intraday-arb/internal/api/models"
	"intraday-arb/internal/config"

	"github.com/gin-gonic/gin"
)

// ParameterHandler describes the scan parameters
type ParameterHandler struct {
	base config.ScanConfig
}

// NewParameterHandler reports base as the defaults
func NewParameterHandler(base config.ScanConfig) *ParameterHandler {
	return &ParameterHandler{base: base}
}

// ListParameters handles GET /api/v1/parameters
func (h *ParameterHandler) ListParameters(c *gin.Context) {
	params := []models.ParameterInfo{
		{
			Name:        "window_length",
			Type:        "duration",
			Description: "Execution-time bucket size (Go duration, e.g. '5m')",
			Default:     h.base.WindowLength.String(),
		},
		{
			Name:        "volume_target",
			Type:        "float",
			Description: "Volume in MW to assemble on each side of a window",
			Default:     h.base.VolumeTarget,
		},
		{
			Name:        "min_spread",
			Type:        "float",
			Description: "Minimum bid minus ask weighted price in EUR/MWh; 0 accepts every filled window",
			Default:     h.base.MinSpread,
		},
		{
			Name:        "workers",
			Type:        "int",
			Description: "Windows evaluated concurrently; 0 uses all CPUs",
			Default:     h.base.Workers,
		},
		{
			Name:        "session.start",
			Type:        "string",
			Description: "Start of the daily execution session (HH:MM UTC); empty disables the filter",
			Default:     h.base.Session.Start,
		},
		{
			Name:        "session.end",
			Type:        "string",
			Description: "End of the daily execution session (HH:MM UTC), exclusive; wraps midnight when before start",
			Default:     h.base.Session.End,
		},
	}

	c.JSON(http.StatusOK, gin.H{"parameters": params})
}
