package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role represents the authoritative role of an actor.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

// Valid returns true when the role is a supported value.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleStudent:
		return true
	default:
		return false
	}
}

// Actor is an authenticated identity as seen by the workflow core. The two
// role fields carry potentially conflicting signals: ServerRole comes from a
// server-controlled attribute and cannot be written by clients, ClientRole
// is client-asserted and therefore attacker-influenceable.
type Actor struct {
	ID         string
	Email      string
	Name       string
	ServerRole Role
	ClientRole Role
}

// Profile is the persisted identity row backing an actor.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProfileSummary is the minimal identity joined into other listings.
type ProfileSummary struct {
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// JWTClaims represents the JWT payload for access tokens. ClientRole mirrors
// the role claim the client presented; authorization always goes through the
// resolver rather than trusting it.
type JWTClaims struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	ClientRole Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest holds credentials for authenticating an actor.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and actor info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        ActorInfo `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// ActorInfo describes the authenticated actor in responses.
type ActorInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
