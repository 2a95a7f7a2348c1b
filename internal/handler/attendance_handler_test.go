package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edunex/portal-academico-api/internal/middleware"
	"github.com/edunex/portal-academico-api/internal/models"
	"github.com/edunex/portal-academico-api/internal/service"
)

type attendanceRepoStub struct {
	saved []models.AttendanceRecord
}

func (s *attendanceRepoStub) ListByClassAndDate(context.Context, string, time.Time) ([]models.AttendanceRecord, error) {
	return nil, nil
}

func (s *attendanceRepoStub) UpsertBatch(_ context.Context, records []models.AttendanceRecord) error {
	s.saved = append(s.saved, records...)
	return nil
}

type classReaderStub struct{}

func (classReaderStub) ListByInstructor(context.Context, string) ([]models.Class, error) {
	return []models.Class{{ID: "c1", Name: "Turma A", InstructorID: "prof-1"}}, nil
}

type allowAllRoles struct{}

func (allowAllRoles) Authorize(models.Actor, ...models.Role) bool { return true }

func newAttendanceTestHandler(repo *attendanceRepoStub) *AttendanceHandler {
	svc := service.NewAttendanceService(repo, classReaderStub{}, allowAllRoles{}, nil, nil)
	return NewAttendanceHandler(svc)
}

func TestSaveAttendanceEndpoint(t *testing.T) {
	repo := &attendanceRepoStub{}
	handler := newAttendanceTestHandler(repo)

	body, _ := json.Marshal(service.SaveAttendanceRequest{Records: []service.AttendanceEntry{
		{ClassID: "c1", UserID: "s1", EventDate: "2025-03-10", Status: "present"},
	}})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/attendance", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "prof-1", ClientRole: models.RoleProfessor})

	handler.SaveAttendance(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "prof-1", repo.saved[0].RecordedBy)
}

func TestSaveAttendanceEndpointRejectsInvalidJSON(t *testing.T) {
	handler := newAttendanceTestHandler(&attendanceRepoStub{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/attendance", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "prof-1"})

	handler.SaveAttendance(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAttendanceEndpointRejectsBadDate(t *testing.T) {
	handler := newAttendanceTestHandler(&attendanceRepoStub{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/classes/c1/attendance?date=10-03-2025", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "class_id", Value: "c1"}}

	handler.GetAttendance(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetClassesEndpoint(t *testing.T) {
	handler := newAttendanceTestHandler(&attendanceRepoStub{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/classes", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "prof-1", ClientRole: models.RoleProfessor})

	handler.GetClasses(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Turma A")
}
