package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type attendanceRepository interface {
	ListByClassAndDate(ctx context.Context, classID string, eventDate time.Time) ([]models.AttendanceRecord, error)
	UpsertBatch(ctx context.Context, records []models.AttendanceRecord) error
}

type classReader interface {
	ListByInstructor(ctx context.Context, instructorID string) ([]models.Class, error)
}

type roleAuthorizer interface {
	Authorize(actor models.Actor, allowed ...models.Role) bool
}

// AttendanceService owns the attendance ledger workflows.
type AttendanceService struct {
	repo      attendanceRepository
	classes   classReader
	roles     roleAuthorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, classes classReader, roles roleAuthorizer, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{repo: repo, classes: classes, roles: roles, validator: validate, logger: logger}
	svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
	return svc
}

// AttendanceEntry is one record inside a save payload. Each entry replaces
// the full row image for its (class, student, date) key.
type AttendanceEntry struct {
	ClassID   string  `json:"class_id" validate:"required"`
	UserID    string  `json:"user_id" validate:"required"`
	EventDate string  `json:"event_date" validate:"required"`
	Status    string  `json:"status" validate:"required,attendance_status"`
	Notes     *string `json:"notes"`
}

// SaveAttendanceRequest describes the batch save payload.
type SaveAttendanceRequest struct {
	Records []AttendanceEntry `json:"records" validate:"required,min=1,dive"`
}

// GetClasses returns the classes taught by an instructor; plain read-only
// pass-through.
func (s *AttendanceService) GetClasses(ctx context.Context, instructorID string) ([]models.Class, error) {
	classes, err := s.classes.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch classes")
	}
	return classes, nil
}

// GetAttendance returns the attendance rows for a class on a date.
func (s *AttendanceService) GetAttendance(ctx context.Context, classID string, eventDate time.Time) ([]models.AttendanceRecord, error) {
	records, err := s.repo.ListByClassAndDate(ctx, classID, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch attendance")
	}
	return records, nil
}

// SaveAttendance validates and upserts the batch keyed on
// (class_id, user_id, event_date). Saving the same payload twice converges
// on the same rows; the batch is accepted or rejected as a whole. A status
// outside the enumerated set is refused before anything reaches the store.
func (s *AttendanceService) SaveAttendance(ctx context.Context, actor models.Actor, req SaveAttendanceRequest) error {
	if !s.roles.Authorize(actor, models.RoleProfessor, models.RoleAdmin) {
		return appErrors.Clone(appErrors.ErrForbidden, "only professors and staff record attendance")
	}
	if err := s.validator.Struct(req); err != nil {
		for _, entry := range req.Records {
			if !models.AttendanceStatus(entry.Status).Valid() {
				return appErrors.Wrap(err, appErrors.ErrInvalidAttendanceStatus.Code, appErrors.ErrInvalidAttendanceStatus.Status, appErrors.ErrInvalidAttendanceStatus.Message)
			}
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	records := make([]models.AttendanceRecord, len(req.Records))
	for i, entry := range req.Records {
		date, err := time.Parse("2006-01-02", entry.EventDate)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "invalid event date, expected YYYY-MM-DD")
		}
		records[i] = models.AttendanceRecord{
			ClassID:    entry.ClassID,
			UserID:     entry.UserID,
			EventDate:  date,
			Status:     models.AttendanceStatus(entry.Status),
			Notes:      entry.Notes,
			RecordedBy: actor.ID,
		}
	}

	if err := s.repo.UpsertBatch(ctx, records); err != nil {
		s.logger.Sugar().Errorw("attendance save failed", "actor", actor.ID, "records", len(records), "error", err)
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to save attendance")
	}
	s.logger.Sugar().Infow("attendance saved", "actor", actor.ID, "records", len(records))
	return nil
}
