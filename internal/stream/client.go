package stream

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size. Clients only send small
	// subscribe commands.
	maxMessageSize = 512

	// Buffered channel size for outbound messages
	sendBufferSize = 64
)

// subscribeCommand is the only inbound message clients send. An empty
// or invalid match id clears the filter.
type subscribeCommand struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id"`
}

// Client is a middleman between a websocket connection and the hub
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	filterMu sync.RWMutex
	matchID  uuid.UUID
}

// NewClient creates a new client for the given connection
func NewClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		hub:  hub,
	}
}

// SetMatchFilter narrows the client to one match. uuid.Nil receives
// every match.
func (c *Client) SetMatchFilter(matchID uuid.UUID) {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()
	c.matchID = matchID
}

func (c *Client) wantsMatch(matchID uuid.UUID) bool {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()
	return c.matchID == uuid.Nil || c.matchID == matchID
}

// TrySend attempts to queue a message without blocking
func (c *Client) TrySend(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// ReadPump reads subscribe commands from the websocket connection and
// keeps the read deadline fresh. It unregisters the client when the
// connection drops.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var cmd subscribeCommand
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithError(err).WithField("client_id", c.id).Warn("Stream read error")
			}
			return
		}

		switch cmd.Type {
		case "subscribe":
			matchID, err := uuid.Parse(cmd.MatchID)
			if err != nil {
				matchID = uuid.Nil
			}
			c.SetMatchFilter(matchID)
		case "unsubscribe":
			c.SetMatchFilter(uuid.Nil)
		}
	}
}

// WritePump pushes queued messages to the websocket connection and
// keeps it alive with pings
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return

		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
