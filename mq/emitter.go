package mq

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"mealbook/rdx"
)

const Channel = "booking-events"

const (
	BookingCreated = "booking-created"
	BookingsPurged = "bookings-purged"
)

// Event is what goes over the booking-events channel.
type Event struct {
	Type  string    `json:"type"`
	Date  string    `json:"date,omitempty"`
	Count int64     `json:"count,omitempty"`
	At    time.Time `json:"at"`
}

var (
	listenersMu sync.RWMutex
	listeners   []func(Event)
)

// OnEvent registers an in-process listener (the websocket hub).
func OnEvent(fn func(Event)) {
	listenersMu.Lock()
	listeners = append(listeners, fn)
	listenersMu.Unlock()
}

func dispatch(evt Event) {
	listenersMu.RLock()
	defer listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(evt)
	}
}

// Emit publishes evt to Redis so every replica's worker sees it. Without
// Redis it is dispatched to local listeners directly.
func Emit(ctx context.Context, evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	if rdx.Conn == nil {
		dispatch(evt)
		return
	}

	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[Emit] marshal %s: %v", evt.Type, err)
		return
	}
	if err := rdx.Conn.Publish(ctx, Channel, data).Err(); err != nil {
		// still tell our own clients
		log.Printf("[Emit] publish %s: %v", evt.Type, err)
		dispatch(evt)
	}
}

// StartEventWorker relays channel messages to local listeners until ctx is
// done. No-op without Redis.
func StartEventWorker(ctx context.Context) {
	if rdx.Conn == nil {
		return
	}
	sub := rdx.Conn.Subscribe(ctx, Channel)
	defer sub.Close()
	ch := sub.Channel()

	log.Printf("[EventWorker] listening on %s", Channel)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("[EventWorker] bad payload: %v", err)
				continue
			}
			dispatch(evt)
		}
	}
}
