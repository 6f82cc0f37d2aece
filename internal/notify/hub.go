package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"
)

// Hub manages websocket observers and broadcasts events.
//
// Concurrency model: a single internal loop (goroutine) owns the
// client map. Public methods communicate with this loop through
// channels, so no mutexes are required. Delivery is best-effort and
// independent per observer: a client that cannot keep up is dropped
// and deregistered rather than blocking the loop.
type Hub struct {
	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewHub creates a hub and starts its event loop.
func NewHub() *Hub {
	h := &Hub{
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)

	clients := make(map[chan []byte]struct{})

	broadcast := func(event Event) {
		raw, err := json.Marshal(event)
		if err != nil {
			return
		}
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full: treat as a failed delivery and
				// deregister so one dead observer cannot pile up.
				delete(clients, ch)
				close(ch)
			}
		}
	}

	for {
		select {
		case <-h.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-h.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-h.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-h.publishCh:
			broadcast(event)

		case resp := <-h.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close stops the loop and closes all client channels.
func (h *Hub) Close() {
	if h.closed.CompareAndSwap(false, true) {
		close(h.stopCh)
	}
	<-h.stopped
}

// Subscribe registers a new observer and returns its channel.
func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if h.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case h.subscribeCh <- ch:
	case <-h.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe deregisters an observer and closes its channel.
func (h *Hub) Unsubscribe(ch chan []byte) {
	if h.closed.Load() {
		return
	}
	select {
	case h.unsubscribeCh <- ch:
	case <-h.stopped:
	}
}

// ClientCount returns the number of registered observers.
func (h *Hub) ClientCount() int {
	if h.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case h.countReqCh <- resp:
	case <-h.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-h.stopped:
		return 0
	}
}

// Publish enqueues an event for broadcast. Handlers never block on
// observer delivery; the hub loop owns that latency.
func (h *Hub) Publish(event Event) {
	if h.closed.Load() {
		return
	}
	select {
	case h.publishCh <- event:
	case <-h.stopped:
	}
}

// PublishFileMoved broadcasts a move notification.
func (h *Hub) PublishFileMoved(m FileMoved) {
	h.Publish(Event{Type: TypeFileMoved, Data: m})
}

// PublishFileRenamed broadcasts a rename notification.
func (h *Hub) PublishFileRenamed(r FileRenamed) {
	h.Publish(Event{Type: TypeFileRenamed, Data: r})
}

var pongMessage = []byte(`{"type":"` + TypePong + `"}`)

// ServeHTTP upgrades the request to a websocket and streams events
// until the client disconnects. A {"type":"ping"} message from the
// client is answered with {"type":"pong"}.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// Reader: consumes liveness probes and detects disconnects. Pong
	// replies are routed through the writer loop because the socket
	// allows only one concurrent writer.
	pongCh := make(chan struct{}, 4)
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var probe struct {
				Type string `json:"type"`
			}
			if json.Unmarshal(data, &probe) == nil && probe.Type == TypePing {
				select {
				case pongCh <- struct{}{}:
				default:
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-readDone:
			return
		case <-pongCh:
			if writeTimeout(ctx, conn, pongMessage) != nil {
				return
			}
		case msg, ok := <-ch:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "hub closed")
				return
			}
			if writeTimeout(ctx, conn, msg) != nil {
				return
			}
		}
	}
}

func writeTimeout(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}
