package chat_test

import (
	"testing"

	"github.com/johncabili/portfolio/backend/internal/service/chat"
)

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := chat.NewBroker(1, nil)
	ch, cancel := b.Subscribe("s1")
	defer cancel()

	b.Publish(chat.Event{Type: chat.EventMessage, SessionID: "s1"})
	b.Publish(chat.Event{Type: chat.EventSound, SessionID: "s1"})
	b.Publish(chat.Event{Type: chat.EventMessage, SessionID: "other"})

	ev := <-ch
	if ev.Type != chat.EventMessage || ev.Timestamp == 0 {
		t.Fatalf("unexpected first event: %+v", ev)
	}
	select {
	case ev := <-ch:
		t.Fatalf("expected overflow to be dropped, got %+v", ev)
	default:
	}
}

func TestBrokerUnsubscribeIsIdempotent(t *testing.T) {
	b := chat.NewBroker(4, nil)
	ch, cancel := b.Subscribe("s1")
	if b.Subscribers("s1") != 1 {
		t.Fatalf("expected one subscriber")
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after unsubscribe")
	}
	if b.Subscribers("s1") != 0 {
		t.Fatalf("expected no subscribers")
	}

	ch2, cancel2 := b.Subscribe("s2")
	b.CloseSession("s2")
	cancel2()
	if _, ok := <-ch2; ok {
		t.Fatalf("CloseSession should close the channel")
	}
}
