package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/msgdesk/internal/allowlist"
	"github.com/and161185/msgdesk/internal/errs"
	"github.com/and161185/msgdesk/internal/limiter"
	"github.com/and161185/msgdesk/internal/model"
	"github.com/and161185/msgdesk/internal/repository"
)

/************ fake identity repo ************/

type fakeIdents struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Identity

	createErr error
	getErr    error
}

var _ repository.IdentityRepository = (*fakeIdents)(nil)

func newFakeIdents() *fakeIdents {
	return &fakeIdents{byID: map[uuid.UUID]*model.Identity{}}
}

func (f *fakeIdents) Create(_ context.Context, ident *model.Identity) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if allowlist.Normalize(u.DisplayName) == allowlist.Normalize(ident.DisplayName) {
			return errs.ErrNameTaken
		}
	}
	cpy := *ident
	cpy.CreatedAt = time.Now()
	f.byID[ident.ID] = &cpy
	ident.CreatedAt = cpy.CreatedAt
	return nil
}

func (f *fakeIdents) GetByID(_ context.Context, id uuid.UUID) (*model.Identity, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeIdents) GetByName(_ context.Context, normalized string) (*model.Identity, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if allowlist.Normalize(u.DisplayName) == normalized {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeIdents) SetBanned(_ context.Context, id uuid.UUID, banned bool) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	u.Banned = banned
	c := *u
	return &c, nil
}

func (f *fakeIdents) List(_ context.Context) ([]model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Identity, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

/************ fake message repo ************/

type fakeMsgs struct {
	mu   sync.Mutex
	rows []model.Message
	seq  int64

	createErr error
}

var _ repository.MessageRepository = (*fakeMsgs)(nil)

func (f *fakeMsgs) Create(_ context.Context, msg *model.Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	msg.Seq = f.seq
	msg.SentAt = time.Now()
	f.rows = append(f.rows, *msg)
	return nil
}

func (f *fakeMsgs) GetByID(_ context.Context, id uuid.UUID) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.ID == id {
			c := m
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeMsgs) ListPair(_ context.Context, a, b uuid.UUID) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Message{}
	for _, m := range f.rows {
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].SentAt.Before(out[j].SentAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (f *fakeMsgs) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.rows {
		if m.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

/************ fake ticket repo ************/

type fakeTickets struct {
	mu   sync.Mutex
	rows []model.SupportTicket
	seq  int64
}

var _ repository.TicketRepository = (*fakeTickets)(nil)

func (f *fakeTickets) Create(_ context.Context, tk *model.SupportTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	tk.Seq = f.seq
	tk.SentAt = time.Now()
	f.rows = append(f.rows, *tk)
	return nil
}

func (f *fakeTickets) ListAll(_ context.Context) ([]model.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]model.SupportTicket(nil), f.rows...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].SentAt.After(out[j].SentAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out, nil
}

func (f *fakeTickets) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, tk := range f.rows {
		if tk.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

/************ fake limiter ************/

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return nil
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}
