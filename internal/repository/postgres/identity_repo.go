package postgres

import (
	"context"
	"errors"

	"github.com/and161185/msgdesk/internal/errs"
	"github.com/and161185/msgdesk/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// IdentityRepo implements IdentityRepository using PostgreSQL.
type IdentityRepo struct{ db *DB }

// NewIdentityRepo constructs an identity repository.
func NewIdentityRepo(db *DB) *IdentityRepo { return &IdentityRepo{db: db} }

// Create inserts a new identity row. The unique index on
// lower(display_name) guarantees a single winner under concurrent
// registrations with the same normalized name.
func (r *IdentityRepo) Create(ctx context.Context, ident *model.Identity) error {
	const q = `
INSERT INTO identities (id, display_name, secret_hash, secret_salt, role, banned)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`
	err := r.db.Pool.QueryRow(ctx, q,
		ident.ID, ident.DisplayName, ident.SecretHash, ident.SecretSalt, string(ident.Role), ident.Banned,
	).Scan(&ident.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrNameTaken
	}
	return err
}

// GetByID selects an identity by ID.
func (r *IdentityRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Identity, error) {
	const q = `
SELECT id, display_name, secret_hash, secret_salt, role, banned, created_at
FROM identities WHERE id=$1`
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByName selects an identity by normalized display name.
func (r *IdentityRepo) GetByName(ctx context.Context, normalized string) (*model.Identity, error) {
	const q = `
SELECT id, display_name, secret_hash, secret_salt, role, banned, created_at
FROM identities WHERE lower(display_name)=$1`
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, normalized))
}

// SetBanned updates the ban flag and returns the updated identity.
func (r *IdentityRepo) SetBanned(ctx context.Context, id uuid.UUID, banned bool) (*model.Identity, error) {
	const q = `
UPDATE identities SET banned=$2 WHERE id=$1
RETURNING id, display_name, secret_hash, secret_salt, role, banned, created_at`
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, id, banned))
}

// List selects all identities ordered by creation time.
func (r *IdentityRepo) List(ctx context.Context) ([]model.Identity, error) {
	const q = `
SELECT id, display_name, secret_hash, secret_salt, role, banned, created_at
FROM identities ORDER BY created_at, id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Identity
	for rows.Next() {
		var ident model.Identity
		var role string
		if err := rows.Scan(&ident.ID, &ident.DisplayName, &ident.SecretHash, &ident.SecretSalt, &role, &ident.Banned, &ident.CreatedAt); err != nil {
			return nil, err
		}
		ident.Role = model.Role(role)
		out = append(out, ident)
	}
	return out, rows.Err()
}

func (r *IdentityRepo) scanOne(row pgx.Row) (*model.Identity, error) {
	var ident model.Identity
	var role string
	if err := row.Scan(&ident.ID, &ident.DisplayName, &ident.SecretHash, &ident.SecretSalt, &role, &ident.Banned, &ident.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	ident.Role = model.Role(role)
	return &ident, nil
}
