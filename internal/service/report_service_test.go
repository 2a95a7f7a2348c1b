package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type mockReportRepo struct {
	attendance []models.AttendanceReportRow
	totals     []models.RequestReportRow
}

func (m *mockReportRepo) AttendanceReport(_ context.Context, _ models.AttendanceReportFilter) ([]models.AttendanceReportRow, error) {
	return m.attendance, nil
}

func (m *mockReportRepo) RequestTotals(_ context.Context, _ models.RequestReportFilter) ([]models.RequestReportRow, error) {
	return m.totals, nil
}

func TestAttendanceReportForbiddenForStudents(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, stubAuthorizer{allow: false}, nil)

	_, err := svc.Attendance(context.Background(), models.Actor{ID: "stu-1"}, models.AttendanceReportFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRequestTotalsReturnsRows(t *testing.T) {
	repo := &mockReportRepo{totals: []models.RequestReportRow{
		{Status: models.RequestStatusOpen, Total: 4},
		{Status: models.RequestStatusClosed, Total: 9},
	}}
	svc := NewReportService(repo, stubAuthorizer{allow: true}, nil)

	rows, err := svc.RequestTotals(context.Background(), models.Actor{ID: "adm-1"}, models.RequestReportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 4, rows[0].Total)
}

func TestExportAttendanceCSV(t *testing.T) {
	repo := &mockReportRepo{attendance: []models.AttendanceReportRow{{
		ClassID:     "c1",
		ClassName:   "Turma A",
		StudentName: "Aluno Um",
		EventDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:      models.AttendanceStatusPresent,
	}}}
	svc := NewReportService(repo, stubAuthorizer{allow: true}, nil)

	data, contentType, err := svc.ExportAttendance(context.Background(), models.Actor{ID: "adm-1"}, models.AttendanceReportFilter{}, ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(data)
	assert.True(t, strings.Contains(body, "Turma A"))
	assert.True(t, strings.Contains(body, "2025-03-10"))
	assert.True(t, strings.Contains(body, "present"))
}

func TestExportAttendancePDF(t *testing.T) {
	repo := &mockReportRepo{attendance: []models.AttendanceReportRow{{
		ClassName:   "Turma A",
		StudentName: "Aluno Um",
		EventDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:      models.AttendanceStatusAbsent,
	}}}
	svc := NewReportService(repo, stubAuthorizer{allow: true}, nil)

	data, contentType, err := svc.ExportAttendance(context.Background(), models.Actor{ID: "adm-1"}, models.AttendanceReportFilter{}, ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestExportAttendanceRejectsUnknownFormat(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, stubAuthorizer{allow: true}, nil)

	_, _, err := svc.ExportAttendance(context.Background(), models.Actor{ID: "adm-1"}, models.AttendanceReportFilter{}, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
