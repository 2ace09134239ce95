package ws

import (
	"sync"

	"bluemoon/internal/logger"
)

const subscriptionBuffer = 64

// Subscription is one live event stream. Close it via Hub.Unsubscribe;
// the channel is closed on unsubscribe so consumers can range over it.
type Subscription struct {
	UserID int64
	Admin  bool
	C      chan Event
}

// Hub fans reward, referral and payout events out to dashboard
// subscriptions. Multiple dashboards may watch the same user; admin
// subscriptions see everything. Delivery is best-effort: a subscriber
// that stops draining its channel loses events rather than blocking
// the publisher.
type Hub struct {
	mu     sync.RWMutex
	byUser map[int64]map[*Subscription]struct{}
	admins map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byUser: make(map[int64]map[*Subscription]struct{}),
		admins: make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a stream for one user's events. Admin
// subscriptions additionally receive all other users' events.
func (h *Hub) Subscribe(userID int64, admin bool) *Subscription {
	sub := &Subscription{
		UserID: userID,
		Admin:  admin,
		C:      make(chan Event, subscriptionBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if admin {
		h.admins[sub] = struct{}{}
	}
	subs, ok := h.byUser[userID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.byUser[userID] = subs
	}
	subs[sub] = struct{}{}

	return sub
}

// Unsubscribe tears the stream down and closes its channel. Safe to
// call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.byUser[sub.UserID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.byUser, sub.UserID)
	}
	delete(h.admins, sub)
	close(sub.C)
}

// Publish delivers an event to the owning user's subscriptions and to
// every admin subscription. Nil hubs no-op so services can run without
// live updates wired (tests, one-shot commands).
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.byUser[ev.UserID] {
		h.send(sub, ev)
	}
	for sub := range h.admins {
		if sub.UserID == ev.UserID {
			continue // already delivered above
		}
		h.send(sub, ev)
	}
}

func (h *Hub) send(sub *Subscription, ev Event) {
	select {
	case sub.C <- ev:
	default:
		logger.Debug("dropping event for slow subscriber", "user_id", sub.UserID, "type", ev.Type)
	}
}
