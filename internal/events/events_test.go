package events

import (
	"testing"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(TypeBookingSubmitted, func(e Event) {
		got = append(got, e)
	})

	bus.Publish(Event{Type: TypeBookingSubmitted, SessionID: "sess-1", PropertyID: "prop-1"})
	bus.Publish(Event{Type: TypeBookingRejected, SessionID: "sess-2"})

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].SessionID != "sess-1" {
		t.Errorf("expected sess-1, got %s", got[0].SessionID)
	}
}

func TestMultipleSubscribers(t *testing.T) {
	bus := NewBus()

	first, second := 0, 0
	bus.Subscribe(TypeSelectionCompleted, func(Event) { first++ })
	bus.Subscribe(TypeSelectionCompleted, func(Event) { second++ })

	bus.Publish(Event{Type: TypeSelectionCompleted})

	if first != 1 || second != 1 {
		t.Errorf("both subscribers should run once, got %d and %d", first, second)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not panic
	bus.Publish(Event{Type: TypeBookingRejected})
}
