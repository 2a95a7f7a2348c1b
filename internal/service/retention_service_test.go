package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type mockRetentionRepo struct {
	actions []models.RetentionAction
	details []models.RetentionActionDetail
}

func (m *mockRetentionRepo) Create(_ context.Context, action *models.RetentionAction) error {
	m.actions = append(m.actions, *action)
	return nil
}

func (m *mockRetentionRepo) ListByUser(_ context.Context, _ string) ([]models.RetentionActionDetail, error) {
	return m.details, nil
}

func TestCreateRetentionActionRecordsActingAdmin(t *testing.T) {
	repo := &mockRetentionRepo{}
	svc := NewRetentionService(repo, stubAuthorizer{allow: true}, nil, nil)

	notes := "Contato telefônico"
	action, err := svc.Create(context.Background(), models.Actor{ID: "adm-1"}, CreateRetentionActionPayload{
		UserID:     "stu-1",
		ActionType: "phone_call",
		Notes:      &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "adm-1", action.AdminID)
	require.Len(t, repo.actions, 1)
	assert.Equal(t, "phone_call", repo.actions[0].ActionType)
}

func TestCreateRetentionActionForbiddenForNonStaff(t *testing.T) {
	repo := &mockRetentionRepo{}
	svc := NewRetentionService(repo, stubAuthorizer{allow: false}, nil, nil)

	_, err := svc.Create(context.Background(), models.Actor{ID: "prof-1"}, CreateRetentionActionPayload{
		UserID:     "stu-1",
		ActionType: "phone_call",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.actions)
}

func TestCreateRetentionActionValidatesPayload(t *testing.T) {
	repo := &mockRetentionRepo{}
	svc := NewRetentionService(repo, stubAuthorizer{allow: true}, nil, nil)

	_, err := svc.Create(context.Background(), models.Actor{ID: "adm-1"}, CreateRetentionActionPayload{UserID: "stu-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestListRetentionHistoryRequiresStaff(t *testing.T) {
	repo := &mockRetentionRepo{details: []models.RetentionActionDetail{{
		RetentionAction: models.RetentionAction{UserID: "stu-1", AdminID: "adm-1", ActionType: "meeting"},
		AdminName:       "Coordenação",
	}}}

	student := NewRetentionService(repo, stubAuthorizer{allow: false}, nil, nil)
	_, err := student.ListForUser(context.Background(), models.Actor{ID: "stu-1"}, "stu-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	staff := NewRetentionService(repo, stubAuthorizer{allow: true}, nil, nil)
	actions, err := staff.ListForUser(context.Background(), models.Actor{ID: "adm-1"}, "stu-1")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "Coordenação", actions[0].AdminName)
}
