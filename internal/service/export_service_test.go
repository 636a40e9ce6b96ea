package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radmosaic/rostergen-api/internal/models"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
)

func exportDetails() []models.AssignmentDetail {
	return []models.AssignmentDetail{{
		AssignmentRecord: models.AssignmentRecord{
			ID: "a-1", ShiftInstanceID: "inst-1", StaffID: "s-1",
			Type: models.AssignmentGenerated, Score: 1.234,
		},
		ShiftCode:  "XR",
		Date:       time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StaffName:  "Ana Ruiz",
		StaffEmail: "ana@rad.example",
	}}
}

func newExportFixture(enabled bool, details []models.AssignmentDetail) *ExportService {
	return NewExportService(
		detailReaderStub{items: details},
		ExportConfig{Enabled: enabled},
		validator.New(),
		zap.NewNop(),
		nil,
		nil,
	)
}

func TestExportServiceCSV(t *testing.T) {
	service := newExportFixture(true, exportDetails())

	file, err := service.Export(context.Background(), rosterPeriod(), "csv")
	require.NoError(t, err)

	assert.Equal(t, "roster_org-1_2026-09.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, string(file.Payload), "Date,Shift,Staff,Email,Type,Score")
	assert.Contains(t, string(file.Payload), "2026-09-07,XR,Ana Ruiz,ana@rad.example,GENERATED,1.234")
}

func TestExportServicePDF(t *testing.T) {
	service := newExportFixture(true, exportDetails())

	file, err := service.Export(context.Background(), rosterPeriod(), "pdf")
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))
}

func TestExportServiceFormatCaseInsensitive(t *testing.T) {
	service := newExportFixture(true, exportDetails())

	file, err := service.Export(context.Background(), rosterPeriod(), " CSV ")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
}

func TestExportServiceDisabled(t *testing.T) {
	service := newExportFixture(false, exportDetails())

	_, err := service.Export(context.Background(), rosterPeriod(), "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	service := newExportFixture(true, exportDetails())

	_, err := service.Export(context.Background(), rosterPeriod(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceEmptyPeriod(t *testing.T) {
	service := newExportFixture(true, nil)

	_, err := service.Export(context.Background(), rosterPeriod(), "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
