package service

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	List(ctx context.Context, role models.Role) ([]models.Profile, error)
}

// ProfileService reads identity profiles and bootstraps missing ones.
type ProfileService struct {
	repo     profileRepository
	resolver roleResolver
	logger   *zap.Logger
}

// NewProfileService constructs the service.
func NewProfileService(repo profileRepository, resolver roleResolver, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, resolver: resolver, logger: logger}
}

// Bootstrap returns the actor's profile, creating it when the row is
// missing. This compensating create exists only here; other services map a
// missing row to not-found.
func (s *ProfileService) Bootstrap(ctx context.Context, actor models.Actor) (*models.Profile, error) {
	profile, err := s.repo.FindByID(ctx, actor.ID)
	if err == nil {
		return profile, nil
	}
	if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load profile")
	}

	name := actor.Name
	if name == "" {
		if at := strings.Index(actor.Email, "@"); at > 0 {
			name = actor.Email[:at]
		} else {
			name = "Usuário"
		}
	}
	profile = &models.Profile{
		ID:    actor.ID,
		Name:  name,
		Email: actor.Email,
		Role:  s.resolver.Resolve(actor),
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to bootstrap profile")
	}
	s.logger.Sugar().Infow("profile bootstrapped", "actor", actor.ID, "role", profile.Role)
	return profile, nil
}

// List returns profiles, optionally filtered by role. Staff view.
func (s *ProfileService) List(ctx context.Context, actor models.Actor, role models.Role) ([]models.Profile, error) {
	if s.resolver.Resolve(actor) != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff list profiles")
	}
	profiles, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list profiles")
	}
	return profiles, nil
}
