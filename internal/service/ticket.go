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

// TicketService is the support-ticket side channel: any identity submits,
// only administrators observe.
type TicketService interface {
	// Submit appends a ticket from the sender.
	Submit(ctx context.Context, senderID uuid.UUID, body string) (*model.SupportTicket, error)
	// SubscribeAll yields the full ticket queue, newest first, immediately
	// and after every change. Administrators only.
	SubscribeAll(ctx context.Context, viewerRole model.Role) (<-chan []model.SupportTicket, error)
	// Delete removes a ticket. Administrators only.
	Delete(ctx context.Context, actor *model.Identity, ticketID uuid.UUID) error
}

type TicketServiceImpl struct {
	tickets repository.TicketRepository
	idents  repository.IdentityRepository
	hub     *watch.Hub
	log     *zap.Logger
}

// NewTicketService constructs TicketService.
func NewTicketService(tickets repository.TicketRepository, idents repository.IdentityRepository, hub *watch.Hub, log *zap.Logger) *TicketServiceImpl {
	return &TicketServiceImpl{tickets: tickets, idents: idents, hub: hub, log: log}
}

// Submit validates the sender and appends the ticket.
func (s *TicketServiceImpl) Submit(ctx context.Context, senderID uuid.UUID, body string) (*model.SupportTicket, error) {
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

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	tk := &model.SupportTicket{
		ID:         id,
		Body:       body,
		SenderID:   sender.ID,
		SenderName: sender.DisplayName,
	}
	if err := s.tickets.Create(ctx, tk); err != nil {
		return nil, err
	}

	s.hub.Publish(watch.Tickets())
	metrics.TicketsSubmitted.Inc()
	return tk, nil
}

// SubscribeAll registers an administrator watcher on the whole queue.
// Ordering is sent_at descending: the queue is for triage, newest first.
func (s *TicketServiceImpl) SubscribeAll(ctx context.Context, viewerRole model.Role) (<-chan []model.SupportTicket, error) {
	if viewerRole != model.RoleAdministrator {
		return nil, errs.ErrNotAuthorized
	}
	sub := s.hub.Subscribe(watch.Tickets())

	first, err := s.tickets.ListAll(ctx)
	if err != nil {
		sub.Cancel()
		return nil, err
	}

	out := make(chan []model.SupportTicket, 1)
	go func() {
		defer close(out)
		defer sub.Cancel()
		metrics.LiveSubscriptions.WithLabelValues("tickets").Inc()
		defer metrics.LiveSubscriptions.WithLabelValues("tickets").Dec()

		if !push(ctx, out, first) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Notify():
				tks, err := s.tickets.ListAll(ctx)
				if err != nil {
					return
				}
				if !push(ctx, out, tks) {
					return
				}
			}
		}
	}()
	return out, nil
}

// Delete removes a ticket permanently.
func (s *TicketServiceImpl) Delete(ctx context.Context, actor *model.Identity, ticketID uuid.UUID) error {
	if actor == nil || actor.Role != model.RoleAdministrator {
		return errs.ErrNotAuthorized
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return err
	}

	s.hub.Publish(watch.Tickets())
	metrics.ModerationActions.WithLabelValues("delete_ticket").Inc()
	s.log.Info("ticket deleted",
		zap.String("actor", actor.ID.String()),
		zap.String("ticket", ticketID.String()),
	)
	return nil
}
