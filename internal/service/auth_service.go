package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edunex/portal-academico-api/internal/models"
	"github.com/edunex/portal-academico-api/internal/repository"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type credentialsReader interface {
	FindCredentialsByEmail(ctx context.Context, email string) (*repository.Credentials, error)
}

type roleResolver interface {
	Resolve(actor models.Actor) models.Role
	Reconcile(ctx context.Context, actor models.Actor, stored models.Role) models.Role
}

// AuthService issues and validates access tokens.
type AuthService struct {
	profiles   credentialsReader
	resolver   roleResolver
	secret     []byte
	expiration time.Duration
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(profiles credentialsReader, resolver roleResolver, secret string, expiration time.Duration, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &AuthService{
		profiles:   profiles,
		resolver:   resolver,
		secret:     []byte(secret),
		expiration: expiration,
		validator:  validate,
		logger:     logger,
	}
}

// Login authenticates credentials and issues an access token carrying the
// resolved role. Stored roles that drifted from the resolver's verdict are
// corrected on the way through.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	creds, err := s.profiles.FindCredentialsByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load profile")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	actor := models.Actor{ID: creds.ID, Email: creds.Email, Name: creds.Name, ServerRole: creds.Role}
	role := s.resolver.Reconcile(ctx, actor, creds.Role)

	now := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID:     creds.ID,
		Email:      creds.Email,
		Name:       creds.Name,
		ClientRole: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   creds.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Sugar().Infow("actor logged in", "actor", creds.ID, "role", role)
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.expiration.Seconds()),
		IssuedAt:    now,
		User:        models.ActorInfo{ID: creds.ID, Email: creds.Email, Name: creds.Name, Role: role},
	}, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
