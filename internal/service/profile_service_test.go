package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type mockProfileRepo struct {
	profiles map[string]*models.Profile
	created  []*models.Profile
	findErr  error
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (m *mockProfileRepo) FindByID(_ context.Context, id string) (*models.Profile, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (m *mockProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	m.created = append(m.created, profile)
	m.profiles[profile.ID] = profile
	return nil
}

func (m *mockProfileRepo) List(_ context.Context, role models.Role) ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range m.profiles {
		if role == "" || p.Role == role {
			out = append(out, *p)
		}
	}
	return out, nil
}

type stubResolver struct {
	role models.Role
}

func (s stubResolver) Resolve(models.Actor) models.Role {
	return s.role
}

func (s stubResolver) Reconcile(_ context.Context, _ models.Actor, _ models.Role) models.Role {
	return s.role
}

func TestBootstrapReturnsExistingProfile(t *testing.T) {
	repo := newMockProfileRepo()
	repo.profiles["u1"] = &models.Profile{ID: "u1", Name: "Aluno Um", Email: "aluno@example.com", Role: models.RoleStudent}
	svc := NewProfileService(repo, stubResolver{role: models.RoleStudent}, nil)

	profile, err := svc.Bootstrap(context.Background(), models.Actor{ID: "u1", Email: "aluno@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Aluno Um", profile.Name)
	assert.Empty(t, repo.created)
}

func TestBootstrapCreatesMissingProfile(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewProfileService(repo, stubResolver{role: models.RoleProfessor}, nil)

	actor := models.Actor{ID: "u1", Email: "maria.silva@docentes.example.com"}
	profile, err := svc.Bootstrap(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, "maria.silva", profile.Name)
	assert.Equal(t, models.RoleProfessor, profile.Role)
}

func TestBootstrapPrefersActorName(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewProfileService(repo, stubResolver{role: models.RoleStudent}, nil)

	actor := models.Actor{ID: "u1", Email: "aluno@example.com", Name: "Aluno Um"}
	profile, err := svc.Bootstrap(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, "Aluno Um", profile.Name)
}

func TestBootstrapDoesNotCompensateOtherFailures(t *testing.T) {
	repo := newMockProfileRepo()
	repo.findErr = errors.New("connection reset")
	svc := NewProfileService(repo, stubResolver{role: models.RoleStudent}, nil)

	_, err := svc.Bootstrap(context.Background(), models.Actor{ID: "u1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStoreUnavailable.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestListProfilesRequiresStaff(t *testing.T) {
	repo := newMockProfileRepo()
	repo.profiles["u1"] = &models.Profile{ID: "u1", Role: models.RoleStudent}

	student := NewProfileService(repo, stubResolver{role: models.RoleStudent}, nil)
	_, err := student.List(context.Background(), models.Actor{ID: "u1"}, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	staff := NewProfileService(repo, stubResolver{role: models.RoleAdmin}, nil)
	profiles, err := staff.List(context.Background(), models.Actor{ID: "adm-1"}, models.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}
