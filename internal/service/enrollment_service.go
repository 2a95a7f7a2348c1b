package service

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type enrollmentRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// EnrollmentService mutates enrollment statuses. Statuses are free-form
// strings: any non-empty value is persisted verbatim, unlike the enumerated
// request and attendance domains. Status changes emit no notification.
type EnrollmentService struct {
	repo   enrollmentRepository
	roles  roleAuthorizer
	logger *zap.Logger
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(repo enrollmentRepository, roles roleAuthorizer, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, roles: roles, logger: logger}
}

// ListForClass returns the enrollments of a class joined with the minimal
// student identity.
func (s *EnrollmentService) ListForClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch enrollments")
	}
	return enrollments, nil
}

// UpdateStatus performs the single-row conditional update keyed by
// enrollment id.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, actor models.Actor, enrollmentID, status string) (*models.Enrollment, error) {
	if !s.roles.Authorize(actor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff update enrollments")
	}
	if strings.TrimSpace(status) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status is required")
	}

	enrollment, err := s.repo.FindByID(ctx, enrollmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load enrollment")
	}

	if err := s.repo.UpdateStatus(ctx, enrollmentID, status); err != nil {
		s.logger.Sugar().Errorw("enrollment update failed", "enrollment", enrollmentID, "error", err)
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update enrollment status")
	}

	enrollment.Status = status
	s.logger.Sugar().Infow("enrollment status updated", "enrollment", enrollmentID, "status", status, "actor", actor.ID)
	return enrollment, nil
}
