package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/radmosaic/rostergen-api/internal/dto"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
)

// parsePeriodQuery extracts the organization-month tuple from query
// parameters. Range validation happens in the service layer.
func parsePeriodQuery(c *gin.Context) (dto.PeriodQuery, error) {
	query := dto.PeriodQuery{OrganizationID: c.Query("organizationId")}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return query, appErrors.Clone(appErrors.ErrValidation, "year must be an integer")
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return query, appErrors.Clone(appErrors.ErrValidation, "month must be an integer")
	}

	query.Year = year
	query.Month = month
	return query, nil
}
