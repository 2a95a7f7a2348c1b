package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edunex/portal-academico-api/internal/models"
)

// ProfileRepository handles persistence of identity profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByID returns a profile by its ID.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	const query = `SELECT id, name, email, role, avatar_url, created_at FROM profiles WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Credentials pairs a profile with its password hash for authentication.
type Credentials struct {
	models.Profile
	PasswordHash string `db:"password_hash"`
}

// FindCredentialsByEmail loads the profile and password hash for login.
func (r *ProfileRepository) FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	const query = `SELECT id, name, email, role, avatar_url, created_at, password_hash FROM profiles WHERE LOWER(email) = LOWER($1)`
	var creds Credentials
	if err := r.db.GetContext(ctx, &creds, query, email); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Create persists a new profile row.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO profiles (id, name, email, role, avatar_url, created_at)
        VALUES (:id, :name, :email, :role, :avatar_url, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// UpdateRole persists a server-side role correction. Clients never reach
// this path directly.
func (r *ProfileRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	const query = `UPDATE profiles SET role = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, role); err != nil {
		return fmt.Errorf("update profile role: %w", err)
	}
	return nil
}

// List returns profiles ordered by name.
func (r *ProfileRepository) List(ctx context.Context, role models.Role) ([]models.Profile, error) {
	query := `SELECT id, name, email, role, avatar_url, created_at FROM profiles`
	args := []interface{}{}
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY name ASC`
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}
