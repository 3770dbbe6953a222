package mq

import (
	"context"
	"testing"
)

func TestEmitWithoutRedisDispatchesLocally(t *testing.T) {
	got := make(chan Event, 1)
	OnEvent(func(e Event) { got <- e })

	Emit(context.Background(), Event{Type: BookingCreated, Date: "2024-01-10"})

	select {
	case e := <-got:
		if e.Type != BookingCreated || e.Date != "2024-01-10" {
			t.Fatalf("unexpected event %+v", e)
		}
		if e.At.IsZero() {
			t.Fatal("Emit did not stamp the event time")
		}
	default:
		t.Fatal("listener was not called")
	}
}
