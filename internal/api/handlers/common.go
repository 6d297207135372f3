package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"intraday-arb/internal/api/models"
	"intraday-arb/internal/data"
	"intraday-arb/internal/model"

	"github.com/gin-gonic/gin"
)

// TradeSource resolves the data_source block of a request.
type TradeSource struct {
	DataDir   string
	Normalize data.NormalizeOptions
}

// Load returns the trades a request refers to. Inline trades get their
// derived fields filled in the same way JSON datasets do.
func (s TradeSource) Load(ds models.DataSource) ([]model.Trade, error) {
	switch ds.Type {
	case "inline":
		return data.FromRecords(ds.Trades), nil
	case "dataset":
		return data.LoadDataset(s.DataDir, ds.Dataset, s.Normalize)
	default:
		return nil, fmt.Errorf("unsupported data source type: %s", ds.Type)
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeTradeError maps a TradeSource failure to a response.
func writeTradeError(c *gin.Context, err error) {
	if errors.Is(err, data.ErrDatasetNotFound) {
		abortWithError(c, http.StatusNotFound, "DATASET_NOT_FOUND", err.Error())
		return
	}
	abortWithError(c, http.StatusBadRequest, "DATA_LOAD_ERROR", err.Error())
}
