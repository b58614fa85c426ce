// Package service contains application services: identity registration and
// authentication, the live directory, pairwise conversations, the support
// ticket queue and session lifecycle.
package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/msgdesk/internal/allowlist"
	pkgcrypto "github.com/and161185/msgdesk/internal/crypto"
	"github.com/and161185/msgdesk/internal/errs"
	"github.com/and161185/msgdesk/internal/limiter"
	"github.com/and161185/msgdesk/internal/metrics"
	"github.com/and161185/msgdesk/internal/model"
	"github.com/and161185/msgdesk/internal/repository"
	"github.com/and161185/msgdesk/internal/watch"
)

// SessionRevoker terminates every live session of an identity. Implemented by
// SessionManager; identities that get banned are logged out immediately.
type SessionRevoker interface {
	RevokeIdentity(identityID uuid.UUID) int
}

// IdentityService defines registration, authentication and moderation of
// identities.
type IdentityService interface {
	// Register creates a new identity gated by the allow-list. The reserved
	// name receives the administrator role.
	Register(ctx context.Context, displayName, secret string) (*model.Identity, error)
	// Authenticate verifies credentials with rate limiting by (name, ip).
	// Failure order is fixed: unknown name, then wrong secret, then banned.
	Authenticate(ctx context.Context, displayName, secret, ip string) (*model.Identity, error)
	// SetBanned toggles the ban flag. Administrators only; administrators
	// can never be banned. Banning revokes the target's live sessions.
	SetBanned(ctx context.Context, actor *model.Identity, targetID uuid.UUID, banned bool) (*model.Identity, error)
}

type IdentityServiceImpl struct {
	idents   repository.IdentityRepository
	allowed  *allowlist.List
	lim      limiter.Limiter
	hub      *watch.Hub
	sessions SessionRevoker
	log      *zap.Logger
}

// NewIdentityService constructs IdentityService with required dependencies.
func NewIdentityService(idents repository.IdentityRepository, allowed *allowlist.List, lim limiter.Limiter, hub *watch.Hub, sessions SessionRevoker, log *zap.Logger) *IdentityServiceImpl {
	return &IdentityServiceImpl{idents: idents, allowed: allowed, lim: lim, hub: hub, sessions: sessions, log: log}
}

// Register creates a new identity and announces it on the directory topic.
func (s *IdentityServiceImpl) Register(ctx context.Context, displayName, secret string) (*model.Identity, error) {
	name := strings.TrimSpace(displayName)
	if name == "" || secret == "" {
		return nil, errs.ErrEmptyBody
	}
	if !s.allowed.Allowed(name) {
		return nil, errs.ErrNameNotAllowed
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	salt, err := pkgcrypto.RandBytes(16)
	if err != nil {
		return nil, err
	}
	role := model.RoleStandard
	if s.allowed.IsAdmin(name) {
		role = model.RoleAdministrator
	}

	ident := &model.Identity{
		ID:          id,
		DisplayName: name,
		SecretHash:  pkgcrypto.HashSecret([]byte(secret), salt),
		SecretSalt:  salt,
		Role:        role,
	}
	// The unique index decides the winner under concurrent registrations.
	if err := s.idents.Create(ctx, ident); err != nil {
		return nil, err
	}

	s.hub.Publish(watch.Directory())
	metrics.Registrations.Inc()
	return ident, nil
}

// Authenticate resolves and verifies an identity. The check order (existence,
// secret, ban) is load-bearing: callers distinguish the three failures.
func (s *IdentityServiceImpl) Authenticate(ctx context.Context, displayName, secret, ip string) (*model.Identity, error) {
	name := allowlist.Normalize(displayName)
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, name, ipHash)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errs.ErrRateLimited
	}

	ident, err := s.idents.GetByName(ctx, name)
	if err != nil {
		return nil, err // errs.ErrNotFound: existence is revealed first
	}
	if !pkgcrypto.VerifySecret([]byte(secret), ident.SecretSalt, ident.SecretHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, name, ipHash); ferr == nil && blocked {
			return nil, errs.ErrRateLimited
		}
		return nil, errs.ErrWrongSecret
	}
	if ident.Banned {
		return nil, errs.ErrBanned
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, name, ipHash)
	metrics.Logins.Inc()
	return ident, nil
}

// SetBanned toggles the ban flag and propagates the change: directory
// subscribers get a fresh snapshot, and a newly banned identity loses every
// live session.
func (s *IdentityServiceImpl) SetBanned(ctx context.Context, actor *model.Identity, targetID uuid.UUID, banned bool) (*model.Identity, error) {
	if actor == nil || actor.Role != model.RoleAdministrator {
		return nil, errs.ErrNotAuthorized
	}
	target, err := s.idents.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == model.RoleAdministrator {
		return nil, errs.ErrCannotBanAdmin
	}

	updated, err := s.idents.SetBanned(ctx, targetID, banned)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(watch.Directory())
	action := "unban"
	if banned {
		action = "ban"
		if s.sessions != nil {
			revoked := s.sessions.RevokeIdentity(targetID)
			s.log.Info("sessions revoked",
				zap.String("target", targetID.String()),
				zap.Int("count", revoked),
			)
		}
	}
	metrics.ModerationActions.WithLabelValues(action).Inc()
	s.log.Info("ban toggled",
		zap.String("actor", actor.ID.String()),
		zap.String("target", targetID.String()),
		zap.Bool("banned", banned),
	)
	return updated, nil
}
