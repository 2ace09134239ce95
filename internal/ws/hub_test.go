package ws

import "testing"

func recvOrNil(sub *Subscription) *Event {
	select {
	case ev, ok := <-sub.C:
		if !ok {
			return nil
		}
		return &ev
	default:
		return nil
	}
}

func TestHub_PublishRoutesToOwner(t *testing.T) {
	h := NewHub()
	alice := h.Subscribe(1, false)
	bob := h.Subscribe(2, false)

	h.Publish(Event{Type: EventBalance, UserID: 1})

	if ev := recvOrNil(alice); ev == nil || ev.Type != EventBalance {
		t.Fatalf("alice should receive her event, got %v", ev)
	}
	if ev := recvOrNil(bob); ev != nil {
		t.Fatalf("bob should not receive alice's event, got %v", ev)
	}
}

func TestHub_AdminSeesEverything(t *testing.T) {
	h := NewHub()
	admin := h.Subscribe(99, true)

	h.Publish(Event{Type: EventTransaction, UserID: 1})
	h.Publish(Event{Type: EventPaymentRequest, UserID: 2})

	if ev := recvOrNil(admin); ev == nil || ev.UserID != 1 {
		t.Fatalf("admin should see user 1 event, got %v", ev)
	}
	if ev := recvOrNil(admin); ev == nil || ev.UserID != 2 {
		t.Fatalf("admin should see user 2 event, got %v", ev)
	}
}

func TestHub_AdminNotDeliveredTwiceForOwnEvents(t *testing.T) {
	h := NewHub()
	admin := h.Subscribe(7, true)

	h.Publish(Event{Type: EventNotification, UserID: 7})

	if ev := recvOrNil(admin); ev == nil {
		t.Fatal("admin should receive own event")
	}
	if ev := recvOrNil(admin); ev != nil {
		t.Fatalf("own event must not be duplicated, got %v", ev)
	}
}

func TestHub_UnsubscribeClosesAndStops(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1, false)

	h.Unsubscribe(sub)
	if _, ok := <-sub.C; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}

	// double unsubscribe must not panic
	h.Unsubscribe(sub)

	// publishing after unsubscribe must not panic either
	h.Publish(Event{Type: EventBalance, UserID: 1})
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1, false)

	for i := 0; i < subscriptionBuffer+10; i++ {
		h.Publish(Event{Type: EventBalance, UserID: 1})
	}

	// drain: exactly the buffer size should have been kept
	n := 0
	for recvOrNil(sub) != nil {
		n++
	}
	if n != subscriptionBuffer {
		t.Fatalf("expected %d buffered events, got %d", subscriptionBuffer, n)
	}
}

func TestHub_NilHubPublishIsSafe(t *testing.T) {
	var h *Hub
	h.Publish(Event{Type: EventBalance, UserID: 1})
}
