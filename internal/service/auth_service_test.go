package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edunex/portal-academico-api/internal/models"
	"github.com/edunex/portal-academico-api/internal/repository"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type mockCredentialsReader struct {
	creds *repository.Credentials
	err   error
}

func (m *mockCredentialsReader) FindCredentialsByEmail(_ context.Context, _ string) (*repository.Credentials, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.creds, nil
}

func newTestAuthService(t *testing.T, password string, role models.Role) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	reader := &mockCredentialsReader{creds: &repository.Credentials{
		Profile: models.Profile{
			ID:    "u1",
			Name:  "Aluno Um",
			Email: "aluno@example.com",
			Role:  role,
		},
		PasswordHash: string(hash),
	}}
	return NewAuthService(reader, stubResolver{role: role}, "test-secret", time.Hour, nil, nil)
}

func TestLoginIssuesTokenWithResolvedRole(t *testing.T) {
	svc := newTestAuthService(t, "senha123", models.RoleStudent)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "aluno@example.com", Password: "senha123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleStudent, resp.User.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.ClientRole)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestAuthService(t, "senha123", models.RoleStudent)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "aluno@example.com", Password: "errada"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	reader := &mockCredentialsReader{err: sql.ErrNoRows}
	svc := NewAuthService(reader, stubResolver{role: models.RoleStudent}, "test-secret", time.Hour, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ninguem@example.com", Password: "senha123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginValidatesPayload(t *testing.T) {
	svc := newTestAuthService(t, "senha123", models.RoleStudent)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "senha123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	issuer := NewAuthService(&mockCredentialsReader{}, stubResolver{role: models.RoleStudent}, "other-secret", time.Hour, nil, nil)
	verifier := newTestAuthService(t, "senha123", models.RoleStudent)

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)
	issuer.profiles = &mockCredentialsReader{creds: &repository.Credentials{
		Profile:      models.Profile{ID: "u1", Email: "aluno@example.com", Role: models.RoleStudent},
		PasswordHash: string(hash),
	}}

	resp, err := issuer.Login(context.Background(), models.LoginRequest{Email: "aluno@example.com", Password: "senha123"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t, "senha123", models.RoleStudent)

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
