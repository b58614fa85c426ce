package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/msgdesk/internal/metrics"
	"github.com/and161185/msgdesk/internal/model"
	"github.com/and161185/msgdesk/internal/repository"
	"github.com/and161185/msgdesk/internal/watch"
)

// DirectoryService delivers the live roster of all identities to connected
// clients.
type DirectoryService interface {
	// Subscribe yields a full directory snapshot (everyone but the viewer)
	// immediately and again after every identity creation or ban change.
	// Snapshot revisions are monotonically non-decreasing per subscriber.
	// The channel closes when ctx is cancelled.
	Subscribe(ctx context.Context, viewerID uuid.UUID) (<-chan model.DirectorySnapshot, error)
}

type DirectoryServiceImpl struct {
	idents repository.IdentityRepository
	hub    *watch.Hub
}

// NewDirectoryService constructs DirectoryService.
func NewDirectoryService(idents repository.IdentityRepository, hub *watch.Hub) *DirectoryServiceImpl {
	return &DirectoryServiceImpl{idents: idents, hub: hub}
}

// Subscribe registers a directory watcher. The initial snapshot is built
// before returning so the caller never starts from an empty view.
func (s *DirectoryServiceImpl) Subscribe(ctx context.Context, viewerID uuid.UUID) (<-chan model.DirectorySnapshot, error) {
	sub := s.hub.Subscribe(watch.Directory())

	entries, err := s.roster(ctx, viewerID)
	if err != nil {
		sub.Cancel()
		return nil, err
	}
	first := model.DirectorySnapshot{Rev: s.hub.Rev(), Entries: entries}

	out := make(chan model.DirectorySnapshot, 1)
	go func() {
		defer close(out)
		defer sub.Cancel()
		metrics.LiveSubscriptions.WithLabelValues("directory").Inc()
		defer metrics.LiveSubscriptions.WithLabelValues("directory").Dec()

		if !push(ctx, out, first) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case rev := <-sub.Notify():
				entries, err := s.roster(ctx, viewerID)
				if err != nil {
					return
				}
				if !push(ctx, out, model.DirectorySnapshot{Rev: rev, Entries: entries}) {
					return
				}
			}
		}
	}()
	return out, nil
}

// roster loads the full identity set minus the viewer.
func (s *DirectoryServiceImpl) roster(ctx context.Context, viewerID uuid.UUID) ([]model.DirectoryEntry, error) {
	idents, err := s.idents.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]model.DirectoryEntry, 0, len(idents))
	for _, ident := range idents {
		if ident.ID == viewerID {
			continue
		}
		entries = append(entries, model.DirectoryEntry{
			ID:          ident.ID,
			DisplayName: ident.DisplayName,
			Role:        ident.Role,
			Banned:      ident.Banned,
		})
	}
	return entries, nil
}

// push delivers v unless ctx is cancelled first.
func push[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- v:
		return true
	}
}
