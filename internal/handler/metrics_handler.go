package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radmosaic/rostergen-api/internal/service"
	"github.com/radmosaic/rostergen-api/pkg/response"
)

// MetricsHandler exposes Prometheus scrape and summary endpoints.
type MetricsHandler struct {
	service *service.MetricsService
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(svc *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{service: svc}
}

// Prometheus serves the scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.service.Handler().ServeHTTP(c.Writer, c.Request)
}

// Summary returns an aggregate snapshot for dashboards.
func (h *MetricsHandler) Summary(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Snapshot(), nil)
}
