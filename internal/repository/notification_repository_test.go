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

func TestNotificationRepositoryListByRecipientOrdersMostRecentFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "recipient", "title", "message", "link", "related_type", "is_read", "created_at"}).
		AddRow("n2", "u1", "Request updated", "status changed", nil, nil, false, now).
		AddRow("n1", "u1", "Welcome", "hello", nil, nil, true, now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs("u1").
		WillReturnRows(rows)

	notifications, err := repo.ListByRecipient(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	require.Equal(t, "n2", notifications[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkRead(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = TRUE WHERE id = $1")).
		WithArgs("n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkRead(context.Background(), "n1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	notification := &models.Notification{Recipient: "u1", Title: "Request updated", Message: "status changed"}
	require.NoError(t, repo.Create(context.Background(), notification))
	require.NotEmpty(t, notification.ID)
	require.False(t, notification.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryCountUnread(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE recipient = $1 AND is_read = FALSE")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountUnread(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
