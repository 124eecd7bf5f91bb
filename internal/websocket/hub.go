package websocket

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"geoweather/pkg/metrics"
	"go.uber.org/zap"
)

// Message is a typed payload pushed to every connected client.
type Message struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// Hub fans out UI state messages to connected WebSocket clients.
type Hub struct {
	logger  *zap.Logger
	metrics *metrics.Collector

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan *Message
}

func NewHub(collector *metrics.Collector, logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		metrics: collector,
		clients: make(map[*websocket.Conn]chan *Message),
	}
}

// Broadcast queues a message for every connected client. Slow clients drop
// messages rather than block the producer.
func (h *Hub) Broadcast(msgType string, data map[string]interface{}) {
	msg := &Message{Type: msgType, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, send := range h.clients {
		select {
		case send <- msg:
		default:
			h.logger.Warn("Dropping message for slow websocket client",
				zap.String("type", msgType))
		}
	}
}

// Serve handles one client connection. It blocks until the client goes away.
func (h *Hub) Serve(conn *websocket.Conn) {
	send := make(chan *Message, 32)

	count := h.addClient(conn, send)
	h.logger.Info("WebSocket client connected",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Int("clients", count))

	done := make(chan struct{})

	go func() {
		defer close(done)
		// Drain incoming frames so pings and close frames are processed.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg := <-send:
			if err := conn.WriteJSON(msg); err != nil {
				h.drop(conn)
				return
			}
		case <-done:
			h.drop(conn)
			return
		}
	}
}

// addClient registers a connection. The gauge is updated under the same lock
// so it always reflects the map.
func (h *Hub) addClient(conn *websocket.Conn, send chan *Message) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[conn] = send
	count := len(h.clients)
	h.metrics.WebsocketClients.Set(float64(count))
	return count
}

func (h *Hub) removeClient(conn *websocket.Conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, conn)
	count := len(h.clients)
	h.metrics.WebsocketClients.Set(float64(count))
	return count
}

func (h *Hub) drop(conn *websocket.Conn) {
	count := h.removeClient(conn)
	h.logger.Info("WebSocket client disconnected", zap.Int("clients", count))
}
