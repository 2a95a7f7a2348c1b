package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]*models.Enrollment
	details     []models.EnrollmentDetail
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: make(map[string]*models.Enrollment)}
}

func (m *mockEnrollmentRepo) ListByClass(_ context.Context, _ string) ([]models.EnrollmentDetail, error) {
	return m.details, nil
}

func (m *mockEnrollmentRepo) FindByID(_ context.Context, id string) (*models.Enrollment, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (m *mockEnrollmentRepo) UpdateStatus(_ context.Context, id, status string) error {
	e, ok := m.enrollments[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Status = status
	return nil
}

func TestUpdateEnrollmentStatusAcceptsFreeFormValue(t *testing.T) {
	repo := newMockEnrollmentRepo()
	repo.enrollments["e1"] = &models.Enrollment{ID: "e1", ClassID: "c1", UserID: "stu-1", Status: "active"}
	svc := NewEnrollmentService(repo, stubAuthorizer{allow: true}, nil)

	enrollment, err := svc.UpdateStatus(context.Background(), models.Actor{ID: "adm-1"}, "e1", "trancado")
	require.NoError(t, err)
	assert.Equal(t, "trancado", enrollment.Status)
	assert.Equal(t, "trancado", repo.enrollments["e1"].Status)
}

func TestUpdateEnrollmentStatusRejectsEmptyValue(t *testing.T) {
	repo := newMockEnrollmentRepo()
	repo.enrollments["e1"] = &models.Enrollment{ID: "e1", Status: "active"}
	svc := NewEnrollmentService(repo, stubAuthorizer{allow: true}, nil)

	_, err := svc.UpdateStatus(context.Background(), models.Actor{ID: "adm-1"}, "e1", "   ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "active", repo.enrollments["e1"].Status)
}

func TestUpdateEnrollmentStatusForbiddenForNonStaff(t *testing.T) {
	repo := newMockEnrollmentRepo()
	repo.enrollments["e1"] = &models.Enrollment{ID: "e1", Status: "active"}
	svc := NewEnrollmentService(repo, stubAuthorizer{allow: false}, nil)

	_, err := svc.UpdateStatus(context.Background(), models.Actor{ID: "stu-1"}, "e1", "cancelled")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUpdateEnrollmentStatusNotFound(t *testing.T) {
	svc := NewEnrollmentService(newMockEnrollmentRepo(), stubAuthorizer{allow: true}, nil)

	_, err := svc.UpdateStatus(context.Background(), models.Actor{ID: "adm-1"}, "missing", "active")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListForClassJoinsStudentIdentity(t *testing.T) {
	repo := newMockEnrollmentRepo()
	repo.details = []models.EnrollmentDetail{{
		Enrollment:   models.Enrollment{ID: "e1", ClassID: "c1", UserID: "stu-1", Status: "active"},
		StudentName:  "Aluno Um",
		StudentEmail: "aluno@example.com",
	}}
	svc := NewEnrollmentService(repo, stubAuthorizer{allow: true}, nil)

	enrollments, err := svc.ListForClass(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "Aluno Um", enrollments[0].StudentName)
}
