package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/linkup-social/linkup-backend/pkg/logger"
)

const redisPubSubChannel = "realtime:events"

var wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "ws_connections_active",
	Help: "Number of currently attached WebSocket connections",
})

// Hub owns the connection set and room membership and is the only component
// that mutates them. It also relays user-targeted events across instances via
// Redis pub/sub, so a recipient connected elsewhere still gets a live push.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client            // connection id -> client
	rooms    map[string]map[string]*Client // room -> connection id -> client
	presence Registry

	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewHub creates a new Hub. redisClient may be nil for single-instance runs.
func NewHub(presence Registry, redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]*Client),
		rooms:       make(map[string]map[string]*Client),
		presence:    presence,
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Presence exposes the registry to the gateway.
func (h *Hub) Presence() Registry { return h.presence }

// Run blocks servicing the cross-instance relay until Stop is called.
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}
	<-h.ctx.Done()
}

// Stop gracefully shuts down the hub.
func (h *Hub) Stop() {
	h.cancel()
}

// Attach adds a connection to the hub.
func (h *Hub) Attach(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	wsConnectionsActive.Inc()
}

// Detach removes a connection and its room memberships.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		wsConnectionsActive.Dec()
	}
	for room, members := range h.rooms {
		if _, ok := members[c.id]; ok {
			delete(members, c.id)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.mu.Unlock()
}

// SendToConn delivers an event to one connection. Best effort.
func (h *Hub) SendToConn(connID string, event *Event) bool {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return client.Send(event)
}

// SendToUser delivers an event to the user's current connection, if present
// on this instance, and publishes it for other instances. Returns whether a
// local live delivery happened.
func (h *Hub) SendToUser(userID uint, eventType string, payload interface{}) bool {
	event := &Event{Type: eventType, Payload: payload}

	delivered := false
	if connID, ok := h.presence.Lookup(userID); ok {
		delivered = h.SendToConn(connID, event)
	}

	if !delivered && h.redisClient != nil {
		msg := &relayMessage{UserID: userID, Event: event}
		data, err := json.Marshal(msg)
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
	return delivered
}

// BroadcastExcept sends an event to every connection but one.
func (h *Hub) BroadcastExcept(excludeConnID string, event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, client := range h.clients {
		if id == excludeConnID {
			continue
		}
		client.Send(event)
	}
}

// BroadcastAll sends an event to every connection.
func (h *Hub) BroadcastAll(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.Send(event)
	}
}

// JoinRoom adds a connection to a room, creating the room on first join.
func (h *Hub) JoinRoom(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][c.id] = c
}

// LeaveRoom removes a connection from a room.
func (h *Hub) LeaveRoom(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c.id)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// SendToRoom sends an event to every member of a room.
func (h *Hub) SendToRoom(room string, event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.rooms[room] {
		client.Send(event)
	}
}

type relayMessage struct {
	UserID uint   `json:"user_id"`
	Event  *Event `json:"event"`
}

// subscribeRedis delivers user-targeted events published by other instances
// to locally connected recipients.
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm relayMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil {
				logger.GetLogger().Warn().Err(err).Msg("malformed relay message")
				continue
			}
			if connID, ok := h.presence.Lookup(rm.UserID); ok {
				h.SendToConn(connID, rm.Event)
			}
		case <-h.ctx.Done():
			return
		}
	}
}
