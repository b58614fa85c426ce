package service

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/and161185/msgdesk/internal/errs"
	"github.com/and161185/msgdesk/internal/model"
	"github.com/and161185/msgdesk/internal/watch"
)

type ticketFixture struct {
	svc    *TicketServiceImpl
	idents *fakeIdents

	nurai, admin *model.Identity
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	idents := newFakeIdents()
	hub := watch.NewHub()
	reg := NewIdentityService(idents, testAllowlist(), &fakeLimiter{allowOK: true}, hub, nil, zap.NewNop())

	f := &ticketFixture{
		svc:    NewTicketService(&fakeTickets{}, idents, hub, zap.NewNop()),
		idents: idents,
	}
	f.nurai = mustRegister(t, reg, "Nurai", "pw")
	f.admin = mustRegister(t, reg, "admin", "pw")
	return f
}

func TestTicket_Submit_Validation(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.nurai.ID, "  ")
	require.ErrorIs(t, err, errs.ErrEmptyBody)

	_, err = f.svc.Submit(ctx, uuid.Must(uuid.NewV4()), "help")
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.idents.SetBanned(ctx, f.nurai.ID, true)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.nurai.ID, "help")
	require.ErrorIs(t, err, errs.ErrSenderBanned)
}

func TestTicket_SubscribeAll_AdminOnlyNewestFirst(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := f.svc.SubscribeAll(ctx, model.RoleStandard)
	require.ErrorIs(t, err, errs.ErrNotAuthorized)

	view, err := f.svc.SubscribeAll(ctx, model.RoleAdministrator)
	require.NoError(t, err)
	require.Empty(t, recv(t, view))

	first, err := f.svc.Submit(ctx, f.nurai.ID, "older")
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, f.nurai.ID, "newer")
	require.NoError(t, err)

	got := recvUntil(t, view, func(tks []model.SupportTicket) bool { return len(tks) == 2 })
	require.Equal(t, second.ID, got[0].ID, "queue is newest-first")
	require.Equal(t, first.ID, got[1].ID)
	require.Equal(t, "Nurai", got[0].SenderName)
}

func TestTicket_Delete(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tk, err := f.svc.Submit(ctx, f.nurai.ID, "spam")
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Delete(ctx, f.nurai, tk.ID), errs.ErrNotAuthorized)

	view, err := f.svc.SubscribeAll(ctx, model.RoleAdministrator)
	require.NoError(t, err)
	require.Len(t, recv(t, view), 1)

	require.NoError(t, f.svc.Delete(ctx, f.admin, tk.ID))
	empty := recvUntil(t, view, func(tks []model.SupportTicket) bool { return len(tks) == 0 })
	require.Empty(t, empty)

	require.ErrorIs(t, f.svc.Delete(ctx, f.admin, tk.ID), errs.ErrNotFound)
}
