package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radmosaic/rostergen-api/internal/dto"
	"github.com/radmosaic/rostergen-api/internal/models"
	"github.com/radmosaic/rostergen-api/internal/service"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
	"github.com/radmosaic/rostergen-api/pkg/response"
)

type vacationManager interface {
	Submit(ctx context.Context, req dto.SubmitVacationRequest) (*models.VacationPreference, error)
	List(ctx context.Context, query dto.PeriodQuery) ([]models.VacationPreference, error)
}

// VacationHandler exposes vacation preference endpoints.
type VacationHandler struct {
	service vacationManager
}

// NewVacationHandler constructs the handler.
func NewVacationHandler(svc *service.VacationService) *VacationHandler {
	return &VacationHandler{service: svc}
}

// Submit files one ranked week-off request.
func (h *VacationHandler) Submit(c *gin.Context) {
	var req dto.SubmitVacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vacation payload"))
		return
	}
	pref, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pref)
}

// List returns the period's preferences with their statuses.
func (h *VacationHandler) List(c *gin.Context) {
	query, err := parsePeriodQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	prefs, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, nil)
}
