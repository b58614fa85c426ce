// Package watch implements the change-notification hub behind every live
// subscription: directory roster, per-pair conversations and the support
// ticket queue. Publishers bump a global revision counter and wake topic
// subscribers; each subscriber re-reads the store and delivers a fresh
// snapshot. Notification channels coalesce (latest revision wins), so a
// publisher never blocks and a subscriber never observes a revision older
// than one it has already seen.
package watch

import (
	"sync"

	"github.com/gofrs/uuid/v5"
)

// Topic identifies one watched set. Topics are comparable values so they can
// key the subscriber table directly.
type Topic struct {
	kind string
	a, b string
}

// Directory is the topic for identity creation and ban changes.
func Directory() Topic { return Topic{kind: "directory"} }

// Tickets is the topic for the support ticket queue.
func Tickets() Topic { return Topic{kind: "tickets"} }

// Pair is the topic for the conversation between two identities. The pair is
// unordered: Pair(x, y) == Pair(y, x).
func Pair(x, y uuid.UUID) Topic {
	a, b := x.String(), y.String()
	if a > b {
		a, b = b, a
	}
	return Topic{kind: "pair", a: a, b: b}
}

// Hub fans revision notifications out to subscribers.
type Hub struct {
	mu   sync.Mutex
	rev  uint64
	subs map[Topic]map[*Subscription]struct{}
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[Topic]map[*Subscription]struct{})}
}

// Subscription is one live watch on a topic. Receive revisions from Notify
// and call Cancel exactly when done; Cancel is idempotent and removes the
// subscriber synchronously.
type Subscription struct {
	hub    *Hub
	topic  Topic
	notify chan uint64
	once   sync.Once
}

// Subscribe registers a new subscriber on the topic.
func (h *Hub) Subscribe(topic Topic) *Subscription {
	s := &Subscription{hub: h, topic: topic, notify: make(chan uint64, 1)}
	h.mu.Lock()
	set := h.subs[topic]
	if set == nil {
		set = make(map[*Subscription]struct{})
		h.subs[topic] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Notify yields the hub revision that made the topic dirty. Intermediate
// revisions may be skipped, never reordered.
func (s *Subscription) Notify() <-chan uint64 { return s.notify }

// Cancel removes the subscription; no notifications are delivered after it
// returns.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		if set, ok := h.subs[s.topic]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.topic)
			}
		}
		h.mu.Unlock()
	})
}

// Publish bumps the revision once and notifies subscribers of every listed
// topic. It never blocks: a slow subscriber's pending notification is
// replaced with the newer revision.
func (h *Hub) Publish(topics ...Topic) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rev++
	rev := h.rev
	for _, t := range topics {
		for s := range h.subs[t] {
			select {
			case s.notify <- rev:
			default:
				// drop the stale pending revision, keep the newest
				select {
				case <-s.notify:
				default:
				}
				select {
				case s.notify <- rev:
				default:
				}
			}
		}
	}
	return rev
}

// Rev returns the current revision.
func (h *Hub) Rev() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rev
}

// Subscribers reports the number of live subscriptions on the topic.
func (h *Hub) Subscribers(topic Topic) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}
