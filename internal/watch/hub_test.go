package watch

import (
	"sync"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
)

func TestPair_Unordered(t *testing.T) {
	t.Parallel()

	x := uuid.Must(uuid.NewV4())
	y := uuid.Must(uuid.NewV4())

	require.Equal(t, Pair(x, y), Pair(y, x))
	require.NotEqual(t, Pair(x, y), Pair(x, x))
	require.NotEqual(t, Pair(x, y), Directory())
	require.NotEqual(t, Directory(), Tickets())
}

func TestHub_PublishReachesOnlyTopicSubscribers(t *testing.T) {
	t.Parallel()

	h := NewHub()
	dir := h.Subscribe(Directory())
	defer dir.Cancel()
	tick := h.Subscribe(Tickets())
	defer tick.Cancel()

	rev := h.Publish(Directory())

	select {
	case got := <-dir.Notify():
		require.Equal(t, rev, got)
	default:
		t.Fatalf("directory subscriber not notified")
	}
	select {
	case <-tick.Notify():
		t.Fatalf("tickets subscriber notified for directory publish")
	default:
	}
}

func TestHub_CoalescesToLatestRevision(t *testing.T) {
	t.Parallel()

	h := NewHub()
	s := h.Subscribe(Tickets())
	defer s.Cancel()

	h.Publish(Tickets())
	h.Publish(Tickets())
	last := h.Publish(Tickets())

	// Only the newest revision is pending.
	got := <-s.Notify()
	require.Equal(t, last, got)
	select {
	case extra := <-s.Notify():
		t.Fatalf("unexpected extra notification rev=%d", extra)
	default:
	}
}

func TestHub_MonotonicPerSubscriber(t *testing.T) {
	t.Parallel()

	h := NewHub()
	s := h.Subscribe(Directory())
	defer s.Cancel()

	done := make(chan struct{})
	var seen []uint64
	go func() {
		defer close(done)
		for rev := range s.notify {
			seen = append(seen, rev)
			if rev >= 200 {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h.Publish(Directory())
			}
		}()
	}
	wg.Wait()
	<-done

	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		require.Greater(t, seen[i], seen[i-1], "stale revision delivered after fresh one")
	}
	require.Equal(t, uint64(200), seen[len(seen)-1])
}

func TestSubscription_CancelStopsDeliveryAndIsIdempotent(t *testing.T) {
	t.Parallel()

	h := NewHub()
	s := h.Subscribe(Directory())
	require.Equal(t, 1, h.Subscribers(Directory()))

	s.Cancel()
	s.Cancel()
	require.Equal(t, 0, h.Subscribers(Directory()))

	h.Publish(Directory())
	select {
	case <-s.Notify():
		t.Fatalf("notification delivered after cancel")
	default:
	}
}
