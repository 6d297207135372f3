package handlers

import (
	"net/http"

	"intraday-arb/internal/api/models"
	"intraday-arb/internal/data"
	"intraday-arb/internal/model"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
)

// LookupProduct handles GET /api/v1/products
func LookupProduct(c *gin.Context) {
	var q models.ProductQuery
	if err := defaults.Set(&q); err != nil {
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// The index follows the wall clock as given; ParseTime keeps the offset.
	end, ok := data.ParseTime(q.DeliveryEnd)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "INVALID_TIME", "delivery_end must be an RFC3339 timestamp")
		return
	}

	p := model.ProductCodeFor(end, q.Duration)
	c.JSON(http.StatusOK, models.ProductResponse{
		Product:         p.String(),
		Kind:            p.Kind.String(),
		Index:           p.Index,
		DeliveryEnd:     end,
		DurationMinutes: q.Duration,
	})
}
