package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radmosaic/rostergen-api/internal/dto"
	"github.com/radmosaic/rostergen-api/internal/service"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
	"github.com/radmosaic/rostergen-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerationRequest) (*dto.GenerationResult, bool, error)
	Result(ctx context.Context, query dto.PeriodQuery) (*dto.GenerationResult, error)
}

// GenerationHandler exposes schedule generation endpoints.
type GenerationHandler struct {
	service scheduleGenerator
}

// NewGenerationHandler constructs the handler.
func NewGenerationHandler(svc *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: svc}
}

// Generate runs schedule generation for one organization-month. A second
// request for a period with a live run joins that run and receives the
// same result; the response meta flags the join.
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}

	result, joined, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	var meta map[string]interface{}
	if joined {
		meta = map[string]interface{}{"joinedInFlightRun": true}
	}
	response.JSON(c, http.StatusOK, result, nil, meta)
}

// Result returns the cached outcome of the period's most recent run.
func (h *GenerationHandler) Result(c *gin.Context) {
	query, err := parsePeriodQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Result(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
