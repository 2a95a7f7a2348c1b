package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type requestRepository interface {
	Create(ctx context.Context, request *models.AdministrativeRequest) error
	ListAll(ctx context.Context) ([]models.AdministrativeRequestDetail, error)
	ListByUser(ctx context.Context, userID string) ([]models.AdministrativeRequest, error)
	FindDetailByID(ctx context.Context, id string) (*models.AdministrativeRequestDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.RequestStatus) error
	ListComments(ctx context.Context, requestID string) ([]models.RequestComment, error)
	AddComment(ctx context.Context, comment *models.RequestComment) error
}

// RequestEvent describes a lifecycle transition handed to the notification
// emitter.
type RequestEvent struct {
	RequestID string
	Recipient string
	Subject   string
	Status    models.RequestStatus
	ActorID   string
}

// RequestEventEmitter forwards lifecycle events toward NotificationCenter.
// Emission is best-effort and sits outside the store transaction: when it
// fails after the mutation committed, the mutation stands and the event is
// lost. Callers log the loss, nothing more.
type RequestEventEmitter interface {
	EmitRequestEvent(event RequestEvent) error
}

// RequestDetailResponse is a request with its comments attached.
type RequestDetailResponse struct {
	models.AdministrativeRequestDetail
	Comments []models.RequestComment `json:"comments"`
}

// CreateRequestPayload describes the creation payload. The requester comes
// from the actor context, never from the body.
type CreateRequestPayload struct {
	RequestType string  `json:"request_type" validate:"required"`
	Subject     string  `json:"subject" validate:"required"`
	Description *string `json:"description"`
}

// RequestService owns the administrative request state machine.
type RequestService struct {
	repo      requestRepository
	roles     roleAuthorizer
	emitter   RequestEventEmitter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequestService constructs the service.
func NewRequestService(repo requestRepository, roles roleAuthorizer, emitter RequestEventEmitter, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &RequestService{repo: repo, roles: roles, emitter: emitter, validator: validate, logger: logger}
	svc.validator.RegisterValidation("request_status", func(fl validator.FieldLevel) bool {
		return models.RequestStatus(fl.Field().String()).Valid()
	})
	return svc
}

// Create opens a new request for the acting identity with status open.
func (s *RequestService) Create(ctx context.Context, actor models.Actor, payload CreateRequestPayload) (*models.AdministrativeRequest, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}
	request := &models.AdministrativeRequest{
		UserID:      actor.ID,
		RequestType: payload.RequestType,
		Subject:     payload.Subject,
		Description: payload.Description,
		Status:      models.RequestStatusOpen,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		s.logger.Sugar().Errorw("request creation failed", "actor", actor.ID, "error", err)
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create request")
	}
	s.logger.Sugar().Infow("request created", "request", request.ID, "actor", actor.ID)
	return request, nil
}

// GetAll returns every request, staff view.
func (s *RequestService) GetAll(ctx context.Context, actor models.Actor) ([]models.AdministrativeRequestDetail, error) {
	if !s.roles.Authorize(actor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff list all requests")
	}
	requests, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch requests")
	}
	return requests, nil
}

// GetForActor returns the requests the acting identity raised.
func (s *RequestService) GetForActor(ctx context.Context, actor models.Actor) ([]models.AdministrativeRequest, error) {
	requests, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch your requests")
	}
	return requests, nil
}

// GetByID returns one request with its comments, timestamp-ordered.
// Requesters see their own requests; staff see any.
func (s *RequestService) GetByID(ctx context.Context, actor models.Actor, id string) (*RequestDetailResponse, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch request")
	}
	if detail.UserID != actor.ID && !s.roles.Authorize(actor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "request belongs to another actor")
	}
	comments, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch request comments")
	}
	return &RequestDetailResponse{AdministrativeRequestDetail: *detail, Comments: comments}, nil
}

// AddComment attaches an immutable comment to a request in any state.
func (s *RequestService) AddComment(ctx context.Context, actor models.Actor, requestID, body string) (*models.RequestComment, error) {
	if body == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "comment is required")
	}
	detail, err := s.repo.FindDetailByID(ctx, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load request")
	}
	if detail.UserID != actor.ID && !s.roles.Authorize(actor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "request belongs to another actor")
	}
	comment := &models.RequestComment{RequestID: requestID, UserID: actor.ID, Comment: body, AuthorName: actor.Name}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to add comment")
	}
	return comment, nil
}

// UpdateStatus sets a request's status. Any enumerated value is allowed,
// including reopening a closed request; the canonical path is policy, not a
// model constraint. On success a notification event is emitted toward the
// requester, best-effort.
func (s *RequestService) UpdateStatus(ctx context.Context, actor models.Actor, requestID string, status models.RequestStatus) (*models.AdministrativeRequestDetail, error) {
	if !s.roles.Authorize(actor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff update request status")
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown request status %q", status))
	}
	detail, err := s.repo.FindDetailByID(ctx, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load request")
	}
	if err := s.repo.UpdateStatus(ctx, requestID, status); err != nil {
		s.logger.Sugar().Errorw("request status update failed", "request", requestID, "error", err)
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update request status")
	}
	detail.Status = status
	s.logger.Sugar().Infow("request status updated", "request", requestID, "status", status, "actor", actor.ID)

	if s.emitter != nil {
		event := RequestEvent{
			RequestID: requestID,
			Recipient: detail.UserID,
			Subject:   detail.Subject,
			Status:    status,
			ActorID:   actor.ID,
		}
		if err := s.emitter.EmitRequestEvent(event); err != nil {
			// The mutation already committed; the notification is lost.
			s.logger.Sugar().Warnw("request notification lost", "request", requestID, "error", err)
		}
	}
	return detail, nil
}
