package handlers

import (
	"net/http"

	"intraday-arb/internal/data"

	"github.com/gin-gonic/gin"
)

// DatasetHandler lists trade files available to data_source.type=dataset
type DatasetHandler struct {
	dir string
}

func NewDatasetHandler(dir string) *DatasetHandler {
	return &DatasetHandler{dir: dir}
}

// ListDatasets handles GET /api/v1/datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	datasets, err := data.ListDatasets(h.dir)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "DATASETS_LOAD_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"datasets": datasets,
		"count":    len(datasets),
	})
}
