package postgres

import (
	"context"
	"errors"

	"github.com/and161185/msgdesk/internal/errs"
	"github.com/and161185/msgdesk/internal/model"
	"github.com/gofrs/uuid/v5"
)

// MessageRepo implements MessageRepository using PostgreSQL.
type MessageRepo struct{ db *DB }

// NewMessageRepo constructs a message repository.
func NewMessageRepo(db *DB) *MessageRepo { return &MessageRepo{db: db} }

// Create inserts a message row; sent_at and seq are assigned by the store
// and written back to msg.
func (r *MessageRepo) Create(ctx context.Context, msg *model.Message) error {
	const q = `
INSERT INTO messages (id, body, sender_id, sender_name, recipient_id, recipient_name)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING seq, sent_at`
	return r.db.Pool.QueryRow(ctx, q,
		msg.ID, msg.Body, msg.SenderID, msg.SenderName, msg.RecipientID, msg.RecipientName,
	).Scan(&msg.Seq, &msg.SentAt)
}

// GetByID selects a message by ID.
func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	const q = `
SELECT id, seq, body, sender_id, sender_name, recipient_id, recipient_name, sent_at
FROM messages WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var m model.Message
	if err := row.Scan(&m.ID, &m.Seq, &m.Body, &m.SenderID, &m.SenderName, &m.RecipientID, &m.RecipientName, &m.SentAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &m, nil
}

// ListPair selects the full conversation between a and b, both directions,
// in the store's total order (sent_at, then seq for identical timestamps).
func (r *MessageRepo) ListPair(ctx context.Context, a, b uuid.UUID) ([]model.Message, error) {
	const q = `
SELECT id, seq, body, sender_id, sender_name, recipient_id, recipient_name, sent_at
FROM messages
WHERE (sender_id=$1 AND recipient_id=$2) OR (sender_id=$2 AND recipient_id=$1)
ORDER BY sent_at, seq`
	rows, err := r.db.Pool.Query(ctx, q, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Seq, &m.Body, &m.SenderID, &m.SenderName, &m.RecipientID, &m.RecipientName, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Delete removes a message row permanently (no tombstone).
func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM messages WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
