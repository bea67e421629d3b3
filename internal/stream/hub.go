// Package stream fans fresh price sheets out to websocket subscribers.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ChrisJamesShevlin/snooker/internal/metrics"
)

const broadcastBufferSize = 256

// Hub maintains the set of active clients and pushes every broadcast
// price sheet to the subscribers whose match filter accepts it. It
// implements http.Handler for the websocket upgrade.
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	upgrader websocket.Upgrader
	logger   *logrus.Logger

	ctxMu  sync.RWMutex
	runCtx context.Context
}

// NewHub creates a new hub. Connections carrying an Origin header must
// match one of allowedOrigins; "*" admits any browser origin.
func NewHub(allowedOrigins []string, baseLogger *logrus.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     baseLogger,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}

	return h
}

// Run starts the hub's main loop and blocks until the context is
// cancelled
func (h *Hub) Run(ctx context.Context) {
	h.ctxMu.Lock()
	h.runCtx = ctx
	h.ctxMu.Unlock()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues a message for delivery to all matching subscribers.
// Non-blocking: the message is dropped when the queue is full.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("Stream broadcast queue full, dropping message")
	}
}

// ClientCount returns the number of active subscribers
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the connection and starts the client pumps
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := NewClient(uuid.NewString(), conn, h)

	if matchParam := r.URL.Query().Get("match_id"); matchParam != "" {
		if matchID, err := uuid.Parse(matchParam); err == nil {
			client.SetMatchFilter(matchID)
		}
	}

	h.Register(client)

	// Pumps follow the hub lifetime, not the upgrade request's
	ctx := h.runContext()
	go client.WritePump(ctx)
	go client.ReadPump(ctx)
}

func (h *Hub) runContext() context.Context {
	h.ctxMu.RLock()
	defer h.ctxMu.RUnlock()
	if h.runCtx == nil {
		return context.Background()
	}
	return h.runCtx
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	metrics.UpdateStreamClients(float64(len(h.clients)))

	h.logger.WithFields(logrus.Fields{
		"client_id": c.id,
		"clients":   len(h.clients),
	}).Info("Stream client connected")
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.UpdateStreamClients(float64(len(h.clients)))

		h.logger.WithFields(logrus.Fields{
			"client_id": c.id,
			"clients":   len(h.clients),
		}).Info("Stream client disconnected")
	}
}

// broadcastMessage fans one payload out to every subscriber whose match
// filter accepts it. Subscribers that cannot keep up are dropped.
func (h *Hub) broadcastMessage(message []byte) {
	var envelope struct {
		MatchID uuid.UUID `json:"match_id"`
	}
	if err := json.Unmarshal(message, &envelope); err != nil {
		h.logger.WithError(err).Warn("Discarding malformed stream payload")
		return
	}

	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.wantsMatch(envelope.MatchID) {
			continue
		}
		if !c.TrySend(message) {
			h.logger.WithField("client_id", c.id).Warn("Stream client too slow, disconnecting")
			go h.Unregister(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	metrics.UpdateStreamClients(0)
}
