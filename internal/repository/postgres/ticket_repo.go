package postgres

import (
	"context"

	"github.com/and161185/msgdesk/internal/errs"
	"github.com/and161185/msgdesk/internal/model"
	"github.com/gofrs/uuid/v5"
)

// TicketRepo implements TicketRepository using PostgreSQL.
type TicketRepo struct{ db *DB }

// NewTicketRepo constructs a ticket repository.
func NewTicketRepo(db *DB) *TicketRepo { return &TicketRepo{db: db} }

// Create inserts a ticket row; sent_at and seq are assigned by the store
// and written back to tk.
func (r *TicketRepo) Create(ctx context.Context, tk *model.SupportTicket) error {
	const q = `
INSERT INTO tickets (id, body, sender_id, sender_name)
VALUES ($1, $2, $3, $4)
RETURNING seq, sent_at`
	return r.db.Pool.QueryRow(ctx, q,
		tk.ID, tk.Body, tk.SenderID, tk.SenderName,
	).Scan(&tk.Seq, &tk.SentAt)
}

// ListAll selects all tickets newest-first.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.SupportTicket, error) {
	const q = `
SELECT id, seq, body, sender_id, sender_name, sent_at
FROM tickets ORDER BY sent_at DESC, seq DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SupportTicket{}
	for rows.Next() {
		var tk model.SupportTicket
		if err := rows.Scan(&tk.ID, &tk.Seq, &tk.Body, &tk.SenderID, &tk.SenderName, &tk.SentAt); err != nil {
			return nil, err
		}
		out = append(out, tk)
	}
	return out, rows.Err()
}

// Delete removes a ticket row permanently.
func (r *TicketRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM tickets WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
