package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type retentionRepository interface {
	Create(ctx context.Context, action *models.RetentionAction) error
	ListByUser(ctx context.Context, userID string) ([]models.RetentionActionDetail, error)
}

// CreateRetentionActionPayload describes the creation payload.
type CreateRetentionActionPayload struct {
	UserID     string  `json:"user_id" validate:"required"`
	ActionType string  `json:"action_type" validate:"required"`
	Notes      *string `json:"notes"`
}

// RetentionService records staff interventions for students.
type RetentionService struct {
	repo      retentionRepository
	roles     roleAuthorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRetentionService constructs the service.
func NewRetentionService(repo retentionRepository, roles roleAuthorizer, validate *validator.Validate, logger *zap.Logger) *RetentionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionService{repo: repo, roles: roles, validator: validate, logger: logger}
}

// Create records a retention action taken by the acting admin.
func (s *RetentionService) Create(ctx context.Context, actor models.Actor, payload CreateRetentionActionPayload) (*models.RetentionAction, error) {
	if !s.roles.Authorize(actor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff record retention actions")
	}
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid retention payload")
	}
	action := &models.RetentionAction{
		UserID:     payload.UserID,
		AdminID:    actor.ID,
		ActionType: payload.ActionType,
		Notes:      payload.Notes,
	}
	if err := s.repo.Create(ctx, action); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to record retention action")
	}
	s.logger.Sugar().Infow("retention action recorded", "student", payload.UserID, "admin", actor.ID, "type", payload.ActionType)
	return action, nil
}

// ListForUser returns the actions recorded for one student, most recent
// first.
func (s *RetentionService) ListForUser(ctx context.Context, actor models.Actor, userID string) ([]models.RetentionActionDetail, error) {
	if !s.roles.Authorize(actor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff view retention history")
	}
	actions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch retention history")
	}
	return actions, nil
}
