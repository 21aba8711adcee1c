package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client represents a single WebSocket connection. userID is zero for
// connections whose handshake carried no identity; those can use rooms and
// server broadcasts but never private messaging or presence.
type Client struct {
	id     string
	userID uint
	conn   *websocket.Conn
	send   chan []byte
}

// NewClient creates a client for an upgraded connection.
func NewClient(conn *websocket.Conn, userID uint) *Client {
	return &Client{
		id:     uuid.New().String(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
	}
}

// ID returns the connection handle used by the presence registry.
func (c *Client) ID() string { return c.id }

// UserID returns the authenticated user, zero if anonymous.
func (c *Client) UserID() uint { return c.userID }

// Send queues an event for delivery. Sends are fire-and-forget with
// at-most-once semantics: a full buffer or closed connection drops the event
// and reports false. The persisted store is the fallback source of truth.
func (c *Client) Send(event *Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// ReadPump reads inbound frames and dispatches them through the gateway.
// Runs once per connection; exits on read error and triggers disconnect.
func (c *Client) ReadPump(g *Gateway) {
	defer func() {
		g.HandleDisconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		g.Dispatch(c, data)
	}
}

// WritePump sends queued events and keepalive pings to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
