// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role is the authorization level of an identity, fixed at registration.
type Role string

const (
	RoleStandard      Role = "standard"
	RoleAdministrator Role = "administrator"
)

// Kind is the presentational classification of a message body.
// It is derived from the body on read and never stored.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Identity is a registered account.
type Identity struct {
	ID          uuid.UUID // PK
	DisplayName string    // unique (case-insensitive), immutable
	SecretHash  []byte    // Argon2id(secret, SecretSalt)
	SecretSalt  []byte    // per-identity salt
	Role        Role      // set once at registration
	Banned      bool      // mutable by administrators only
	CreatedAt   time.Time
}

// DirectoryEntry is the subset of Identity visible to other clients.
type DirectoryEntry struct {
	ID          uuid.UUID
	DisplayName string
	Role        Role
	Banned      bool
}

// DirectorySnapshot is the full directory state delivered to one subscriber.
// Rev increases monotonically per subscriber.
type DirectorySnapshot struct {
	Rev     uint64
	Entries []DirectoryEntry
}

// Message is a single direct message between two identities.
// Sender and recipient names are denormalized at write time; later
// display-name changes do not rewrite history.
type Message struct {
	ID            uuid.UUID
	Seq           int64 // store-assigned, breaks sent_at ties
	Body          string
	SenderID      uuid.UUID
	SenderName    string
	RecipientID   uuid.UUID
	RecipientName string
	SentAt        time.Time
}

// SupportTicket is a one-way message from a standard identity to all
// administrators.
type SupportTicket struct {
	ID         uuid.UUID
	Seq        int64
	Body       string
	SenderID   uuid.UUID
	SenderName string
	SentAt     time.Time
}
