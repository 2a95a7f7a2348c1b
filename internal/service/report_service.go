package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
	"github.com/edunex/portal-academico-api/pkg/export"
)

type reportRepository interface {
	AttendanceReport(ctx context.Context, filter models.AttendanceReportFilter) ([]models.AttendanceReportRow, error)
	RequestTotals(ctx context.Context, filter models.RequestReportFilter) ([]models.RequestReportRow, error)
}

// ReportFormat selects the export encoding.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportService serves precomputed report rows and renders exports. It
// computes no aggregates itself.
type ReportService struct {
	repo   reportRepository
	roles  roleAuthorizer
	logger *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(repo reportRepository, roles roleAuthorizer, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, roles: roles, logger: logger}
}

// Attendance returns attendance report rows for the filter.
func (s *ReportService) Attendance(ctx context.Context, actor models.Actor, filter models.AttendanceReportFilter) ([]models.AttendanceReportRow, error) {
	if !s.roles.Authorize(actor, models.RoleAdmin, models.RoleProfessor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff and professors view reports")
	}
	rows, err := s.repo.AttendanceReport(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch attendance report")
	}
	return rows, nil
}

// RequestTotals returns per-status request counts for the filter.
func (s *ReportService) RequestTotals(ctx context.Context, actor models.Actor, filter models.RequestReportFilter) ([]models.RequestReportRow, error) {
	if !s.roles.Authorize(actor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff view request reports")
	}
	rows, err := s.repo.RequestTotals(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch request totals")
	}
	return rows, nil
}

// ExportAttendance renders the attendance report in the requested format.
func (s *ReportService) ExportAttendance(ctx context.Context, actor models.Actor, filter models.AttendanceReportFilter, format ReportFormat) ([]byte, string, error) {
	rows, err := s.Attendance(ctx, actor, filter)
	if err != nil {
		return nil, "", err
	}

	table := export.Table{
		Title:   "Relatório de Frequência",
		Headers: []string{"Turma", "Aluno", "Data", "Status", "Observações"},
		Rows:    make([][]string, len(rows)),
	}
	for i, row := range rows {
		notes := ""
		if row.Notes != nil {
			notes = *row.Notes
		}
		table.Rows[i] = []string{
			row.ClassName,
			row.StudentName,
			row.EventDate.Format("2006-01-02"),
			string(row.Status),
			notes,
		}
	}

	switch format {
	case ReportFormatCSV:
		data, err := export.CSV(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	case ReportFormatPDF:
		data, err := export.PDF(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}
}
