package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

// WebSocketHub fans mutation events out to connected WebSocket clients.
// Every create, update, and delete on the REST API is broadcast as an Event
// so UI clients can refresh without polling.
type WebSocketHub struct {
	clients    map[hubClient]bool
	broadcast  chan interface{}
	register   chan hubClient
	unregister chan hubClient
	origins    []string
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
}

// hubClient covers both real connections and test doubles.
type hubClient interface {
	sendChannel() chan []byte
	close()
}

// wsClient is a live WebSocket connection.
type wsClient struct {
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte
}

func (c *wsClient) sendChannel() chan []byte { return c.send }

func (c *wsClient) close() {
	if c.conn != nil {
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
	}
}

// NewWebSocketHub creates a hub. originPatterns lists the host:port values
// accepted during the upgrade handshake; empty means same-origin only.
func NewWebSocketHub(originPatterns ...string) *WebSocketHub {
	ctx, cancel := context.WithCancel(context.Background())
	return &WebSocketHub{
		clients:    make(map[hubClient]bool),
		broadcast:  make(chan interface{}, 256),
		register:   make(chan hubClient),
		unregister: make(chan hubClient),
		origins:    originPatterns,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes register, unregister, and broadcast events until Stop.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.sendChannel())
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			// Full lock: slow clients get dropped from the map below.
			h.mu.Lock()
			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("websocket: marshal broadcast: %v", err)
				h.mu.Unlock()
				continue
			}
			for client := range h.clients {
				select {
				case client.sendChannel() <- data:
				default:
					close(client.sendChannel())
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// Stop shuts down the hub and disconnects all clients.
func (h *WebSocketHub) Stop() {
	h.cancel()

	h.mu.Lock()
	for client := range h.clients {
		close(client.sendChannel())
		client.close()
	}
	h.clients = make(map[hubClient]bool)
	h.mu.Unlock()
}

// Broadcast queues a message for all connected clients. Messages are dropped
// when the queue is full rather than blocking the caller.
func (h *WebSocketHub) Broadcast(message interface{}) {
	select {
	case h.broadcast <- message:
	default:
		log.Println("websocket: broadcast channel full, dropping message")
	}
}

// Register adds a client to the hub.
func (h *WebSocketHub) Register(client hubClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WebSocketHub) Unregister(client hubClient) {
	h.unregister <- client
}

// ServeHTTP handles WebSocket upgrade requests on /ws.
func (h *WebSocketHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		log.Printf("websocket: upgrade failed: %v", err)
		return
	}

	client := &wsClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.Register(client)

	go client.writePump()
	go client.readPump()
}

// writePump pushes queued messages out to the connection.
func (c *wsClient) writePump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			return
		}
	}
}

// readPump drains inbound messages so disconnects are noticed promptly.
// The protocol is one-way; client messages are ignored.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		if _, _, err := c.conn.Read(context.Background()); err != nil {
			return
		}
	}
}

// MockClient is a test double for hub clients.
type MockClient struct {
	SendChan chan []byte
}

func (m *MockClient) sendChannel() chan []byte { return m.SendChan }

func (m *MockClient) close() {}
