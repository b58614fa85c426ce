package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/msgdesk/internal/errs"
	"github.com/and161185/msgdesk/internal/metrics"
	"github.com/and161185/msgdesk/internal/model"
	"github.com/and161185/msgdesk/internal/repository"
	"github.com/and161185/msgdesk/internal/watch"
)

// ConversationService is the pairwise message stream between exactly two
// identities.
type ConversationService interface {
	// Send accepts a message from sender to peer. The store assigns the
	// ordering key at acceptance time.
	Send(ctx context.Context, senderID, peerID uuid.UUID, body string) (*model.Message, error)
	// Subscribe yields the full ordered conversation {viewer, peer}, both
	// directions, immediately and after every change to the pair.
	// The channel closes when ctx is cancelled.
	Subscribe(ctx context.Context, viewerID, peerID uuid.UUID) (<-chan []model.Message, error)
	// Delete removes a message store-wide. Administrators only; active
	// subscriptions of both participants observe the removal.
	Delete(ctx context.Context, actor *model.Identity, messageID uuid.UUID) error
}

type ConversationServiceImpl struct {
	msgs   repository.MessageRepository
	idents repository.IdentityRepository
	hub    *watch.Hub
	log    *zap.Logger
}

// NewConversationService constructs ConversationService.
func NewConversationService(msgs repository.MessageRepository, idents repository.IdentityRepository, hub *watch.Hub, log *zap.Logger) *ConversationServiceImpl {
	return &ConversationServiceImpl{msgs: msgs, idents: idents, hub: hub, log: log}
}

// Send validates both participants, stores the message with denormalized
// display names and wakes the pair's subscribers.
func (s *ConversationServiceImpl) Send(ctx context.Context, senderID, peerID uuid.UUID, body string) (*model.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errs.ErrEmptyBody
	}
	sender, err := s.idents.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender.Banned {
		return nil, errs.ErrSenderBanned
	}
	recipient, err := s.idents.GetByID(ctx, peerID)
	if err != nil {
		return nil, err
	}
	if recipient.Banned {
		return nil, errs.ErrRecipientBanned
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	msg := &model.Message{
		ID:            id,
		Body:          body,
		SenderID:      sender.ID,
		SenderName:    sender.DisplayName,
		RecipientID:   recipient.ID,
		RecipientName: recipient.DisplayName,
	}
	if err := s.msgs.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.hub.Publish(watch.Pair(sender.ID, recipient.ID))
	metrics.MessagesSent.Inc()
	return msg, nil
}

// Subscribe registers a watcher on the {viewer, peer} pair. Every delivery is
// the complete conversation in the store's total order (sent_at, seq), so all
// subscribers of the pair observe identical sequences.
func (s *ConversationServiceImpl) Subscribe(ctx context.Context, viewerID, peerID uuid.UUID) (<-chan []model.Message, error) {
	sub := s.hub.Subscribe(watch.Pair(viewerID, peerID))

	first, err := s.msgs.ListPair(ctx, viewerID, peerID)
	if err != nil {
		sub.Cancel()
		return nil, err
	}

	out := make(chan []model.Message, 1)
	go func() {
		defer close(out)
		defer sub.Cancel()
		metrics.LiveSubscriptions.WithLabelValues("conversation").Inc()
		defer metrics.LiveSubscriptions.WithLabelValues("conversation").Dec()

		if !push(ctx, out, first) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Notify():
				msgs, err := s.msgs.ListPair(ctx, viewerID, peerID)
				if err != nil {
					return
				}
				if !push(ctx, out, msgs) {
					return
				}
			}
		}
	}()
	return out, nil
}

// Delete hard-deletes a message. The moderation action is logged for
// accountability; there is no persistent audit trail.
func (s *ConversationServiceImpl) Delete(ctx context.Context, actor *model.Identity, messageID uuid.UUID) error {
	if actor == nil || actor.Role != model.RoleAdministrator {
		return errs.ErrNotAuthorized
	}
	msg, err := s.msgs.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if err := s.msgs.Delete(ctx, messageID); err != nil {
		return err
	}

	s.hub.Publish(watch.Pair(msg.SenderID, msg.RecipientID))
	metrics.ModerationActions.WithLabelValues("delete_message").Inc()
	s.log.Info("message deleted",
		zap.String("actor", actor.ID.String()),
		zap.String("message", messageID.String()),
	)
	return nil
}
