package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/and161185/msgdesk/internal/model"
	"github.com/and161185/msgdesk/internal/watch"
)

func TestDirectory_SnapshotExcludesViewer(t *testing.T) {
	t.Parallel()

	idents := newFakeIdents()
	reg, hub := newIdentitySvc(idents, &fakeLimiter{allowOK: true}, nil)
	dir := NewDirectoryService(idents, hub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nurai := mustRegister(t, reg, "Nurai", "pw")
	alice := mustRegister(t, reg, "Alice", "pw")

	view, err := dir.Subscribe(ctx, nurai.ID)
	require.NoError(t, err)

	snap := recv(t, view)
	require.Len(t, snap.Entries, 1)
	require.Equal(t, alice.ID, snap.Entries[0].ID)
	require.Equal(t, "Alice", snap.Entries[0].DisplayName)
}

func TestDirectory_UpdatesOnRegistrationAndBan(t *testing.T) {
	t.Parallel()

	idents := newFakeIdents()
	reg, hub := newIdentitySvc(idents, &fakeLimiter{allowOK: true}, nil)
	dir := NewDirectoryService(idents, hub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nurai := mustRegister(t, reg, "Nurai", "pw")
	admin := mustRegister(t, reg, "admin", "pw")

	view, err := dir.Subscribe(ctx, admin.ID)
	require.NoError(t, err)
	first := recv(t, view)
	require.Len(t, first.Entries, 1)

	// a new registration appears without resubscribing
	mustRegister(t, reg, "Alice", "pw")
	grown := recvUntil(t, view, func(s model.DirectorySnapshot) bool {
		return len(s.Entries) == 2
	})
	require.GreaterOrEqual(t, grown.Rev, first.Rev)

	// a ban flips the entry in place, again without resubscribing
	_, err = reg.SetBanned(ctx, admin, nurai.ID, true)
	require.NoError(t, err)
	bannedSnap := recvUntil(t, view, func(s model.DirectorySnapshot) bool {
		for _, e := range s.Entries {
			if e.ID == nurai.ID && e.Banned {
				return true
			}
		}
		return false
	})
	require.Greater(t, bannedSnap.Rev, first.Rev)
}

func TestDirectory_RevisionsMonotonicPerSubscriber(t *testing.T) {
	t.Parallel()

	idents := newFakeIdents()
	reg, hub := newIdentitySvc(idents, &fakeLimiter{allowOK: true}, nil)
	dir := NewDirectoryService(idents, hub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	viewer := mustRegister(t, reg, "Nurai", "pw")
	view, err := dir.Subscribe(ctx, viewer.ID)
	require.NoError(t, err)

	names := []string{"Alice", "Bob", "Carol"}
	for _, n := range names {
		mustRegister(t, reg, n, "pw")
	}

	var last uint64
	final := recvUntil(t, view, func(s model.DirectorySnapshot) bool {
		require.GreaterOrEqual(t, s.Rev, last, "stale snapshot after fresh one")
		last = s.Rev
		return len(s.Entries) == len(names)
	})
	require.Len(t, final.Entries, 3)
}

func TestDirectory_UnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	idents := newFakeIdents()
	reg, hub := newIdentitySvc(idents, &fakeLimiter{allowOK: true}, nil)
	dir := NewDirectoryService(idents, hub)
	ctx, cancel := context.WithCancel(context.Background())

	viewer := mustRegister(t, reg, "Nurai", "pw")
	view, err := dir.Subscribe(ctx, viewer.ID)
	require.NoError(t, err)
	recv(t, view)

	cancel()
	require.Eventually(t, func() bool {
		return hub.Subscribers(watch.Directory()) == 0
	}, 2*time.Second, 10*time.Millisecond)

	// further mutations are silent for the cancelled subscriber
	mustRegister(t, reg, "Alice", "pw")
	select {
	case snap, ok := <-view:
		require.False(t, ok, "unexpected delivery after cancel: %+v", snap)
	case <-time.After(100 * time.Millisecond):
	}
}
