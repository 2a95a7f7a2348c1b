package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type mockNotificationRepo struct {
	notifications map[string]*models.Notification
	created       []*models.Notification
	markedRead    []string
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*models.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	notification.ID = "not-1"
	m.created = append(m.created, notification)
	m.notifications[notification.ID] = notification
	return nil
}

func (m *mockNotificationRepo) ListByRecipient(_ context.Context, recipientID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.Recipient == recipientID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) FindByID(_ context.Context, id string) (*models.Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *n
	return &copied, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	m.markedRead = append(m.markedRead, id)
	m.notifications[id].IsRead = true
	return nil
}

func (m *mockNotificationRepo) ListUnreadRecipients(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, n := range m.notifications {
		if !n.IsRead && !seen[n.Recipient] {
			seen[n.Recipient] = true
			out = append(out, n.Recipient)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, recipientID string) (int, error) {
	count := 0
	for _, n := range m.notifications {
		if n.Recipient == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type mockCountCache struct {
	values  map[string]interface{}
	deleted []string
}

func newMockCountCache() *mockCountCache {
	return &mockCountCache{values: make(map[string]interface{})}
}

func (m *mockCountCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *mockCountCache) Del(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.values, key)
	return nil
}

func seedNotification(repo *mockNotificationRepo, id, recipient string, read bool) {
	repo.notifications[id] = &models.Notification{
		ID:        id,
		Recipient: recipient,
		Title:     "Aviso",
		Message:   "Mensagem",
		IsRead:    read,
	}
}

func TestGetForActorDerivesUnreadFromList(t *testing.T) {
	repo := newMockNotificationRepo()
	seedNotification(repo, "n1", "stu-1", false)
	seedNotification(repo, "n2", "stu-1", true)
	seedNotification(repo, "n3", "stu-2", false)
	svc := NewNotificationService(repo, nil, 0, nil)

	feed, err := svc.GetForActor(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, 2)
	assert.Equal(t, 1, feed.UnreadCount)
}

func TestGetForActorEmptyFeed(t *testing.T) {
	svc := NewNotificationService(newMockNotificationRepo(), nil, 0, nil)

	feed, err := svc.GetForActor(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.NotNil(t, feed.Notifications)
	assert.Empty(t, feed.Notifications)
	assert.Zero(t, feed.UnreadCount)
}

func TestMarkAsReadFlipsFlagAndInvalidatesCache(t *testing.T) {
	repo := newMockNotificationRepo()
	seedNotification(repo, "n1", "stu-1", false)
	cache := newMockCountCache()
	svc := NewNotificationService(repo, cache, time.Minute, nil)

	require.NoError(t, svc.MarkAsRead(context.Background(), "stu-1", "n1"))
	assert.True(t, repo.notifications["n1"].IsRead)
	assert.Contains(t, cache.deleted, "notifications:unread:stu-1")
}

func TestMarkAsReadIdempotentWhenAlreadyRead(t *testing.T) {
	repo := newMockNotificationRepo()
	seedNotification(repo, "n1", "stu-1", true)
	svc := NewNotificationService(repo, newMockCountCache(), time.Minute, nil)

	require.NoError(t, svc.MarkAsRead(context.Background(), "stu-1", "n1"))
	assert.Empty(t, repo.markedRead)
	assert.True(t, repo.notifications["n1"].IsRead)
}

func TestMarkAsReadForbiddenForOtherRecipient(t *testing.T) {
	repo := newMockNotificationRepo()
	seedNotification(repo, "n1", "stu-1", false)
	svc := NewNotificationService(repo, nil, 0, nil)

	err := svc.MarkAsRead(context.Background(), "stu-2", "n1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.notifications["n1"].IsRead)
}

func TestMarkAsReadNotFound(t *testing.T) {
	svc := NewNotificationService(newMockNotificationRepo(), nil, 0, nil)

	err := svc.MarkAsRead(context.Background(), "stu-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestResolveLinkPrefersExplicitLink(t *testing.T) {
	svc := NewNotificationService(newMockNotificationRepo(), nil, 0, nil)

	link := "/aluno/solicitacoes/req-1"
	related := "contract"
	got := svc.ResolveLink(models.Notification{Link: &link, RelatedType: &related})
	assert.Equal(t, "/aluno/solicitacoes/req-1", got)
}

func TestResolveLinkFallsBackPerRelatedType(t *testing.T) {
	svc := NewNotificationService(newMockNotificationRepo(), nil, 0, nil)

	contract := "contract"
	assert.Equal(t, "/admin/service-providers", svc.ResolveLink(models.Notification{RelatedType: &contract}))

	request := "request"
	assert.Equal(t, "/aluno/solicitacoes", svc.ResolveLink(models.Notification{RelatedType: &request}))

	unknown := "invoice"
	assert.Equal(t, "/", svc.ResolveLink(models.Notification{RelatedType: &unknown}))
	assert.Equal(t, "/", svc.ResolveLink(models.Notification{}))
}

func TestHandleRequestEventStoresNotification(t *testing.T) {
	repo := newMockNotificationRepo()
	cache := newMockCountCache()
	svc := NewNotificationService(repo, cache, time.Minute, nil)

	event := RequestEvent{
		RequestID: "req-1",
		Recipient: "stu-1",
		Subject:   "Declaração de matrícula",
		Status:    models.RequestStatusResolved,
	}
	require.NoError(t, svc.HandleRequestEvent(context.Background(), event))

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "stu-1", created.Recipient)
	require.NotNil(t, created.Link)
	assert.Equal(t, "/aluno/solicitacoes/req-1", *created.Link)
	require.NotNil(t, created.RelatedType)
	assert.Equal(t, "request", *created.RelatedType)
	assert.False(t, created.IsRead)
	assert.Contains(t, cache.deleted, "notifications:unread:stu-1")
}

func TestRefreshUnreadCountCachesCounter(t *testing.T) {
	repo := newMockNotificationRepo()
	seedNotification(repo, "n1", "stu-1", false)
	seedNotification(repo, "n2", "stu-1", false)
	cache := newMockCountCache()
	svc := NewNotificationService(repo, cache, time.Minute, nil)

	require.NoError(t, svc.RefreshUnreadCount(context.Background(), "stu-1"))
	assert.Equal(t, 2, cache.values["notifications:unread:stu-1"])
}

func TestRefreshAllUnreadCountsCoversEveryRecipient(t *testing.T) {
	repo := newMockNotificationRepo()
	seedNotification(repo, "n1", "stu-1", false)
	seedNotification(repo, "n2", "stu-2", false)
	seedNotification(repo, "n3", "stu-3", true)
	cache := newMockCountCache()
	svc := NewNotificationService(repo, cache, time.Minute, nil)

	require.NoError(t, svc.RefreshAllUnreadCounts(context.Background()))
	assert.Equal(t, 1, cache.values["notifications:unread:stu-1"])
	assert.Equal(t, 1, cache.values["notifications:unread:stu-2"])
	assert.NotContains(t, cache.values, "notifications:unread:stu-3")
}
