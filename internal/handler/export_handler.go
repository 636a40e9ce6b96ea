package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/radmosaic/rostergen-api/internal/dto"
	"github.com/radmosaic/rostergen-api/internal/service"
	"github.com/radmosaic/rostergen-api/pkg/response"
)

type rosterExporter interface {
	Export(ctx context.Context, query dto.PeriodQuery, format string) (*service.ExportFile, error)
}

// ExportHandler streams rendered roster exports.
type ExportHandler struct {
	service rosterExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export renders the period roster as CSV or PDF and streams it.
func (h *ExportHandler) Export(c *gin.Context) {
	query, err := parsePeriodQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := c.DefaultQuery("format", "csv")

	file, err := h.service.Export(c.Request.Context(), query, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.ContentType, file.Filename, file.Payload)
}
