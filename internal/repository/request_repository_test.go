package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/edunex/portal-academico-api/internal/models"
)

func TestRequestRepositoryCreateDefaultsIDAndTimestamp(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectExec("INSERT INTO administrative_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))

	request := &models.AdministrativeRequest{
		UserID:      "u1",
		RequestType: "document",
		Subject:     "Histórico escolar",
		Status:      models.RequestStatusOpen,
	}
	require.NoError(t, repo.Create(context.Background(), request))
	require.NotEmpty(t, request.ID)
	require.False(t, request.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE administrative_requests SET status = $2 WHERE id = $1")).
		WithArgs("r1", models.RequestStatusClosed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "r1", models.RequestStatusClosed))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryUpdateStatusMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE administrative_requests SET status = $2 WHERE id = $1")).
		WithArgs("missing", models.RequestStatusClosed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.Error(t, repo.UpdateStatus(context.Background(), "missing", models.RequestStatusClosed))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryListCommentsOrderedByTimestamp(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "request_id", "user_id", "comment", "created_at", "author_name"}).
		AddRow("cm1", "r1", "u1", "first", now.Add(-time.Minute), "Ana").
		AddRow("cm2", "r1", "u2", "second", now, "Bruno")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY rc.created_at ASC")).
		WithArgs("r1").
		WillReturnRows(rows)

	comments, err := repo.ListComments(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "Ana", comments[0].AuthorName)
	require.NoError(t, mock.ExpectationsWereMet())
}
