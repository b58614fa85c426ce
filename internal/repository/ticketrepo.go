package repository

import (
	"context"

	"github.com/and161185/msgdesk/internal/model"
	"github.com/gofrs/uuid/v5"
)

// TicketRepository provides access to support tickets.
type TicketRepository interface {
	// Create inserts a ticket; the store assigns SentAt and Seq and fills
	// them on the passed ticket.
	Create(ctx context.Context, tk *model.SupportTicket) error
	// ListAll returns every ticket ordered by (sent_at, seq) descending;
	// the triage queue is newest-first.
	ListAll(ctx context.Context) ([]model.SupportTicket, error)
	// Delete removes a ticket permanently. Returns errs.ErrNotFound when
	// no row matches.
	Delete(ctx context.Context, id uuid.UUID) error
}
