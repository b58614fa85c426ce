// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/msgdesk/internal/model"
	"github.com/gofrs/uuid/v5"
)

// IdentityRepository provides access to registered identities.
type IdentityRepository interface {
	// Create inserts a new identity. Returns errs.ErrNameTaken when the
	// normalized display name is already registered; the database unique
	// index makes concurrent duplicate registrations single-winner.
	Create(ctx context.Context, ident *model.Identity) error
	// GetByID loads an identity by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Identity, error)
	// GetByName loads an identity by normalized display name.
	GetByName(ctx context.Context, normalized string) (*model.Identity, error)
	// SetBanned updates the ban flag and returns the updated identity.
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) (*model.Identity, error)
	// List returns all identities ordered by creation time.
	List(ctx context.Context) ([]model.Identity, error)
}
