package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radmosaic/rostergen-api/internal/dto"
	"github.com/radmosaic/rostergen-api/internal/models"
	"github.com/radmosaic/rostergen-api/internal/service"
	"github.com/radmosaic/rostergen-api/pkg/response"
)

type rosterReader interface {
	Materialize(ctx context.Context, query dto.PeriodQuery) ([]models.ShiftInstance, error)
	Roster(ctx context.Context, query dto.PeriodQuery) (*dto.RosterView, error)
	Ledger(ctx context.Context, query dto.PeriodQuery) ([]models.FairnessScore, error)
}

// RosterHandler exposes roster read and materialization endpoints.
type RosterHandler struct {
	service rosterReader
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// Materialize creates the month's shift instances from recurrence masks.
func (h *RosterHandler) Materialize(c *gin.Context) {
	query, err := parsePeriodQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	instances, err := h.service.Materialize(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instances, nil)
}

// Roster returns the period's assignments and uncovered instances.
func (h *RosterHandler) Roster(c *gin.Context) {
	query, err := parsePeriodQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Roster(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Ledger returns the period's fairness ledger snapshot.
func (h *RosterHandler) Ledger(c *gin.Context) {
	query, err := parsePeriodQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.service.Ledger(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
