package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/observability"
)

// StreamConfig configures alert stream connections.
type StreamConfig struct {
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// PongTimeout is how long a client may stay silent before it is dropped.
	PongTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// SendBuffer is the per-client queue length; messages beyond it are dropped.
	SendBuffer int
}

// DefaultStreamConfig returns default alert stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		PingInterval: 30 * time.Second,
		PongTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		SendBuffer:   64,
	}
}

// streamMessage is the envelope written to stream clients.
type streamMessage struct {
	Type string        `json:"type"`
	Data *domain.Alert `json:"data"`
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *streamClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// AlertHub fans newly created alerts out to websocket subscribers.
// It implements dashboard.AlertNotifier.
type AlertHub struct {
	config   StreamConfig
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*streamClient]struct{}
	closed  bool
	wg      sync.WaitGroup
}

// NewAlertHub creates a hub. A nil config uses DefaultStreamConfig.
func NewAlertHub(logger *zap.Logger, config *StreamConfig) *AlertHub {
	cfg := DefaultStreamConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertHub{
		config: cfg,
		logger: logger.Named("stream"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*streamClient]struct{}),
	}
}

// AlertCreated queues a to every connected client without blocking.
func (h *AlertHub) AlertCreated(a *domain.Alert) {
	payload, err := json.Marshal(streamMessage{Type: "alert", Data: a})
	if err != nil {
		h.logger.Error("marshal alert", zap.Int64("alert_id", a.ID), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			observability.RecordStreamDropped()
			h.logger.Warn("stream client too slow, dropping alert", zap.Int64("alert_id", a.ID))
		}
	}
}

// Clients returns the number of connected subscribers.
func (h *AlertHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and streams alerts until the client leaves.
func (h *AlertHub) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &streamClient{
		conn: conn,
		send: make(chan []byte, h.config.SendBuffer),
		done: make(chan struct{}),
	}
	if !h.register(client) {
		conn.Close()
		return
	}

	go h.writeLoop(client)
	go h.readLoop(client)
}

// register adds c and reserves its two loops in wg. It fails once the hub
// is closed.
func (h *AlertHub) register(c *streamClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	// Counted under mu so Close never waits on a group that is still growing.
	h.wg.Add(2)
	observability.SetStreamClients(len(h.clients))
	h.logger.Debug("stream client connected", zap.Int("clients", len(h.clients)))
	return true
}

func (h *AlertHub) unregister(c *streamClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		observability.SetStreamClients(len(h.clients))
	}
	h.mu.Unlock()
	c.close()
}

// readLoop discards client frames; it exists to process pongs and notice
// disconnects.
func (h *AlertHub) readLoop(c *streamClient) {
	defer h.wg.Done()
	defer h.unregister(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(h.config.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.config.PongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *AlertHub) writeLoop(c *streamClient) {
	defer h.wg.Done()
	defer h.unregister(c)

	ticker := time.NewTicker(h.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every client and rejects new ones.
func (h *AlertHub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*streamClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.close()
	}
	h.wg.Wait()
}
