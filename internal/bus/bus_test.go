package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("session.", 8)
	defer unsub()

	b.Publish(Event{Kind: KindSessionChanged, Timestamp: time.Now()})

	select {
	case evt := <-ch:
		if evt.Kind != KindSessionChanged {
			t.Errorf("kind = %q, want %q", evt.Kind, KindSessionChanged)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("mutation.", 8)
	defer unsub()

	b.Publish(Event{Kind: KindSessionChanged})
	b.Publish(Event{Kind: KindInvitesMutated})

	select {
	case evt := <-ch:
		if evt.Kind != KindInvitesMutated {
			t.Errorf("kind = %q, want %q", evt.Kind, KindInvitesMutated)
		}
	case <-time.After(time.Second):
		t.Fatal("matching event not delivered")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected second event %q", evt.Kind)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("", 8)
	unsub()

	b.Publish(Event{Kind: KindContactsChanged})

	select {
	case evt := <-ch:
		t.Errorf("received %q after unsubscribe", evt.Kind)
	default:
	}
}

func TestFullSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	_, unsub := b.Subscribe("", 1)
	defer unsub()

	done := make(chan struct{})
	go func() {
		// Second publish would block if delivery were blocking.
		b.Publish(Event{Kind: KindChatsMutated})
		b.Publish(Event{Kind: KindChatsMutated})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
