package httpapi

import (
	"time"

	"github.com/and161185/msgdesk/internal/classify"
	"github.com/and161185/msgdesk/internal/model"
)

// Wire payloads. Kind is recomputed here on every read: the wire layer is
// the single source of truth for classification.

type identityPayload struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Banned      bool      `json:"banned"`
	CreatedAt   time.Time `json:"created_at"`
}

func toIdentityPayload(ident *model.Identity) identityPayload {
	return identityPayload{
		ID:          ident.ID.String(),
		DisplayName: ident.DisplayName,
		Role:        string(ident.Role),
		Banned:      ident.Banned,
		CreatedAt:   ident.CreatedAt,
	}
}

type directoryEntryPayload struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Banned      bool   `json:"banned"`
}

type directorySnapshotPayload struct {
	Rev     uint64                  `json:"rev"`
	Entries []directoryEntryPayload `json:"entries"`
}

func toDirectoryPayload(snap model.DirectorySnapshot) directorySnapshotPayload {
	out := directorySnapshotPayload{Rev: snap.Rev, Entries: make([]directoryEntryPayload, 0, len(snap.Entries))}
	for _, e := range snap.Entries {
		out.Entries = append(out.Entries, directoryEntryPayload{
			ID:          e.ID.String(),
			DisplayName: e.DisplayName,
			Role:        string(e.Role),
			Banned:      e.Banned,
		})
	}
	return out
}

type messagePayload struct {
	ID            string    `json:"id"`
	Body          string    `json:"body"`
	Kind          string    `json:"kind"`
	SenderID      string    `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	RecipientID   string    `json:"recipient_id"`
	RecipientName string    `json:"recipient_name"`
	SentAt        time.Time `json:"sent_at"`
}

func toMessagePayload(m model.Message) messagePayload {
	return messagePayload{
		ID:            m.ID.String(),
		Body:          m.Body,
		Kind:          string(classify.Kind(m.Body)),
		SenderID:      m.SenderID.String(),
		SenderName:    m.SenderName,
		RecipientID:   m.RecipientID.String(),
		RecipientName: m.RecipientName,
		SentAt:        m.SentAt,
	}
}

func toMessagePayloads(msgs []model.Message) []messagePayload {
	out := make([]messagePayload, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessagePayload(m))
	}
	return out
}

type ticketPayload struct {
	ID         string    `json:"id"`
	Body       string    `json:"body"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	SentAt     time.Time `json:"sent_at"`
}

func toTicketPayload(tk model.SupportTicket) ticketPayload {
	return ticketPayload{
		ID:         tk.ID.String(),
		Body:       tk.Body,
		SenderID:   tk.SenderID.String(),
		SenderName: tk.SenderName,
		SentAt:     tk.SentAt,
	}
}

func toTicketPayloads(tks []model.SupportTicket) []ticketPayload {
	out := make([]ticketPayload, 0, len(tks))
	for _, tk := range tks {
		out = append(out, toTicketPayload(tk))
	}
	return out
}
