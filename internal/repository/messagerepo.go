package repository

import (
	"context"

	"github.com/and161185/msgdesk/internal/model"
	"github.com/gofrs/uuid/v5"
)

// MessageRepository provides access to conversation messages.
type MessageRepository interface {
	// Create inserts a message; the store assigns SentAt and Seq and fills
	// them on the passed message.
	Create(ctx context.Context, msg *model.Message) error
	// GetByID loads a message by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	// ListPair returns every message exchanged between a and b in either
	// direction, ordered by (sent_at, seq) ascending.
	ListPair(ctx context.Context, a, b uuid.UUID) ([]model.Message, error)
	// Delete removes a message permanently. Returns errs.ErrNotFound when
	// no row matches.
	Delete(ctx context.Context, id uuid.UUID) error
}
