package booking

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"mealbook/mq"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second
	// messages queued per subscriber before it is considered stuck
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// admin page is served from another origin; CORS already gates the API
		return true
	},
}

type WSMessage struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Date  string `json:"date,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) shut() {
	s.once.Do(func() { close(s.send) })
}

// Hub fans booking changes out to connected admin pages so their counts
// refresh without polling. Broadcast never blocks on a socket: each
// subscriber has its own writer goroutine, and one that falls behind is
// dropped.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Listen hooks the hub to the booking event stream.
func (h *Hub) Listen() {
	mq.OnEvent(func(evt mq.Event) {
		data, _ := json.Marshal(WSMessage{Type: "update", Event: evt.Type, Date: evt.Date})
		h.Broadcast(data)
	})
}

func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(sub)

	for {
		// keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(sub)
}

func (h *Hub) writeLoop(sub *subscriber) {
	defer sub.conn.Close()
	for msg := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(sub)
			return
		}
	}
	sub.conn.SetWriteDeadline(time.Now().Add(time.Second))
	sub.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.shut()
}

// Broadcast queues val for every subscriber and returns immediately.
func (h *Hub) Broadcast(val []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case sub.send <- val:
		default:
			log.Printf("[ws] dropping subscriber %s: send queue full", sub.conn.RemoteAddr())
			delete(h.subs, sub)
			sub.shut()
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close drops every subscriber, used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		delete(h.subs, sub)
		sub.shut()
	}
}
