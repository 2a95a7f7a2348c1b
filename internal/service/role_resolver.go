package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edunex/portal-academico-api/internal/models"
)

// RoleRule inspects an actor and either yields a role or passes. Rules are
// pure and evaluated top-down; the first match wins.
type RoleRule interface {
	Apply(actor models.Actor) (models.Role, bool)
}

// ServerRoleRule yields the server-controlled role attribute. It sits first
// because that attribute is not client-writable and must win whenever
// present.
type ServerRoleRule struct{}

// Apply implements RoleRule.
func (ServerRoleRule) Apply(actor models.Actor) (models.Role, bool) {
	if actor.ServerRole.Valid() {
		return actor.ServerRole, true
	}
	return "", false
}

// ClientRoleRule yields the client-asserted role. Many legacy records carry
// only this signal, so resolution degrades to it rather than failing.
type ClientRoleRule struct{}

// Apply implements RoleRule.
func (ClientRoleRule) Apply(actor models.Actor) (models.Role, bool) {
	if actor.ClientRole.Valid() {
		return actor.ClientRole, true
	}
	return "", false
}

// EmailRule derives a default role from the actor's email. The address
// lists and domain patterns are injected from configuration.
type EmailRule struct {
	AdminEmails      []string
	ProfessorEmails  []string
	ProfessorDomains []string
}

// Apply implements RoleRule.
func (r EmailRule) Apply(actor models.Actor) (models.Role, bool) {
	email := strings.ToLower(strings.TrimSpace(actor.Email))
	if email == "" {
		return "", false
	}
	for _, candidate := range r.AdminEmails {
		if email == strings.ToLower(candidate) {
			return models.RoleAdmin, true
		}
	}
	for _, candidate := range r.ProfessorEmails {
		if email == strings.ToLower(candidate) {
			return models.RoleProfessor, true
		}
	}
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domain := email[at+1:]
		for _, candidate := range r.ProfessorDomains {
			if domain == strings.ToLower(candidate) {
				return models.RoleProfessor, true
			}
		}
	}
	return "", false
}

// FallbackRule always yields the student role.
type FallbackRule struct{}

// Apply implements RoleRule.
func (FallbackRule) Apply(models.Actor) (models.Role, bool) {
	return models.RoleStudent, true
}

type roleWriter interface {
	UpdateRole(ctx context.Context, id string, role models.Role) error
}

type cooldownCache interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
}

// RoleResolver derives an actor's authoritative role from its rule chain
// and reconciles stored profiles whose role drifted from it.
type RoleResolver struct {
	rules    []RoleRule
	profiles roleWriter
	cooldown cooldownCache
	window   time.Duration
	logger   *zap.Logger
}

// NewRoleResolver builds a resolver with the standard precedence chain:
// server role, client role, email default, student.
func NewRoleResolver(emailRule EmailRule, profiles roleWriter, cooldown cooldownCache, window time.Duration, logger *zap.Logger) *RoleResolver {
	if window <= 0 {
		window = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleResolver{
		rules:    []RoleRule{ServerRoleRule{}, ClientRoleRule{}, emailRule, FallbackRule{}},
		profiles: profiles,
		cooldown: cooldown,
		window:   window,
		logger:   logger,
	}
}

// Resolve returns the actor's authoritative role. It always yields a value;
// the fallback rule guarantees termination.
func (r *RoleResolver) Resolve(actor models.Actor) models.Role {
	for _, rule := range r.rules {
		if role, ok := rule.Apply(actor); ok {
			return role
		}
	}
	return models.RoleStudent
}

// ValidateConsistency reports whether the actor's role signals agree. It
// returns false only when both the server- and client-controlled attributes
// are present and disagree; the absence of one is not a violation. The
// check is advisory and never blocks resolution.
func (r *RoleResolver) ValidateConsistency(actor models.Actor) bool {
	if actor.ServerRole.Valid() && actor.ClientRole.Valid() {
		return actor.ServerRole == actor.ClientRole
	}
	return true
}

// Authorize short-circuits with a forbidden result unless the actor's
// resolved role is among the allowed ones.
func (r *RoleResolver) Authorize(actor models.Actor, allowed ...models.Role) bool {
	role := r.Resolve(actor)
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Reconcile corrects the stored profile role when it drifted from the
// resolved one. A per-actor cooldown keeps the write from repeating on
// every request. Failures are logged and swallowed: reconciliation is a
// background correction, never a gate.
func (r *RoleResolver) Reconcile(ctx context.Context, actor models.Actor, stored models.Role) models.Role {
	resolved := r.Resolve(actor)
	if stored == resolved || r.profiles == nil {
		return resolved
	}

	if r.cooldown != nil {
		acquired, err := r.cooldown.SetNX(ctx, "role_check:"+actor.ID, resolved, r.window)
		if err != nil {
			r.logger.Sugar().Warnw("role cooldown unavailable", "actor", actor.ID, "error", err)
		} else if !acquired {
			return resolved
		}
	}

	if err := r.profiles.UpdateRole(ctx, actor.ID, resolved); err != nil {
		r.logger.Sugar().Warnw("role reconciliation failed", "actor", actor.ID, "error", err)
		return resolved
	}
	r.logger.Sugar().Infow("profile role corrected", "actor", actor.ID, "from", stored, "to", resolved)
	return resolved
}
