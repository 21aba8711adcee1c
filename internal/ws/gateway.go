package ws

import (
	"encoding/json"
	"fmt"

	"github.com/linkup-social/linkup-backend/internal/common"
	"github.com/linkup-social/linkup-backend/internal/domain"
	"github.com/linkup-social/linkup-backend/pkg/logger"
)

// FriendChecker is the slice of the friend service the gateway needs to gate
// private messaging.
type FriendChecker interface {
	AreFriends(userA, userB uint) (bool, error)
}

// MessageSaver persists private messages. Persistence must complete before
// any live emit is attempted.
type MessageSaver interface {
	SaveMessage(senderID, receiverID uint, content, imageURL string) (*domain.Message, error)
}

// Gateway owns the connection lifecycle and routes inbound realtime events:
// friendship authorization, message persistence, live delivery and acks.
type Gateway struct {
	hub     *Hub
	friends FriendChecker
	chat    MessageSaver
}

// NewGateway creates a new Gateway
func NewGateway(hub *Hub, friends FriendChecker, chat MessageSaver) *Gateway {
	return &Gateway{hub: hub, friends: friends, chat: chat}
}

// HandleConnect attaches the connection and, when the handshake carried a
// user identity, registers presence and announces the join to everyone else.
func (g *Gateway) HandleConnect(c *Client) {
	g.hub.Attach(c)
	if c.userID == 0 {
		return
	}

	g.hub.Presence().Register(c.userID, c.id)
	g.hub.BroadcastExcept(c.id, &Event{
		Type: EventUserJoined,
		Payload: PresencePayload{
			UserID:  c.userID,
			Message: fmt.Sprintf("User %d joined", c.userID),
		},
	})
	l := logger.WithUserID(c.userID)
	l.Info().Str("conn_id", c.id).Msg("user connected")
}

// HandleDisconnect detaches the connection. The presence entry is removed
// only if this connection still owns it; a stale disconnect after a
// reconnect must not evict the newer registration.
func (g *Gateway) HandleDisconnect(c *Client) {
	g.hub.Detach(c)
	if c.userID == 0 {
		return
	}

	userID, ok := g.hub.Presence().Remove(c.id)
	if !ok {
		return
	}
	g.hub.BroadcastExcept(c.id, &Event{
		Type: EventUserLeft,
		Payload: PresencePayload{
			UserID:  userID,
			Message: fmt.Sprintf("User %d left", userID),
		},
	})
	l := logger.WithUserID(userID)
	l.Info().Str("conn_id", c.id).Msg("user disconnected")
}

// Dispatch routes one inbound frame to its handler.
func (g *Gateway) Dispatch(c *Client, data []byte) {
	var event inboundEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.Send(&Event{Type: EventError, Payload: ErrorPayload{Message: "malformed event"}})
		return
	}

	switch event.Type {
	case EventPrivateMessage:
		var payload PrivateMessagePayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			c.Send(&Event{Type: EventError, Payload: ErrorPayload{Message: "malformed private message"}})
			return
		}
		g.HandlePrivateMessage(c, payload)

	case EventJoinRoom:
		var payload RoomPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil || payload.Room == "" {
			c.Send(&Event{Type: EventError, Payload: ErrorPayload{Message: "malformed room event"}})
			return
		}
		g.HandleJoinRoom(c, payload.Room)

	case EventLeaveRoom:
		var payload RoomPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil || payload.Room == "" {
			c.Send(&Event{Type: EventError, Payload: ErrorPayload{Message: "malformed room event"}})
			return
		}
		g.HandleLeaveRoom(c, payload.Room)

	case EventGroupMessage:
		var payload RoomPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil || payload.Room == "" {
			c.Send(&Event{Type: EventError, Payload: ErrorPayload{Message: "malformed room event"}})
			return
		}
		g.HandleGroupMessage(c, payload)

	case EventNewMessage:
		// Server-wide broadcast pass-through.
		g.hub.BroadcastAll(&Event{Type: EventNewMessage, Payload: json.RawMessage(event.Payload)})

	default:
		c.Send(&Event{Type: EventError, Payload: ErrorPayload{Message: "unknown event type"}})
	}
}

// HandlePrivateMessage runs the direct-message pipeline: friendship gate,
// persist, live delivery to the recipient if present, and an ack to the
// sender either way.
func (g *Gateway) HandlePrivateMessage(c *Client, payload PrivateMessagePayload) {
	// An authenticated connection may only send as itself.
	if c.userID != 0 && c.userID != payload.FromUserID {
		c.Send(&Event{Type: EventError, Payload: ErrorPayload{Message: "sender does not match connection identity"}})
		return
	}

	areFriends, err := g.friends.AreFriends(payload.FromUserID, payload.ToUserID)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("friendship check failed")
		c.Send(&Event{Type: EventError, Payload: ErrorPayload{Message: "failed to verify friendship"}})
		return
	}
	if !areFriends {
		c.Send(&Event{Type: EventError, Payload: ErrorPayload{Message: common.ErrMessagingNotAllowed.Error()}})
		return
	}

	saved, err := g.chat.SaveMessage(payload.FromUserID, payload.ToUserID, payload.Message, payload.ImageURL)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("failed to persist private message")
		c.Send(&Event{Type: EventError, Payload: ErrorPayload{Message: "failed to save message"}})
		return
	}

	delivery := MessageDeliveryPayload{
		ID:        saved.ID,
		From:      saved.SenderID,
		To:        saved.ReceiverID,
		Message:   saved.Content,
		ImageURL:  saved.ImageURL,
		Timestamp: saved.CreatedAt,
		IsRead:    false,
	}

	delivered := false
	if connID, ok := g.hub.Presence().Lookup(payload.ToUserID); ok {
		delivered = g.hub.SendToConn(connID, &Event{Type: EventPrivateMessage, Payload: delivery})
	}

	ack := delivery
	ack.Delivered = &delivered
	c.Send(&Event{Type: EventMessageSent, Payload: ack})
}

// HandleJoinRoom adds the connection to a room and informs its members.
func (g *Gateway) HandleJoinRoom(c *Client, room string) {
	g.hub.JoinRoom(room, c)
	g.hub.SendToRoom(room, &Event{
		Type: EventRoomInfo,
		Payload: RoomInfoPayload{
			Room:    room,
			Message: fmt.Sprintf("Connection %s joined room %s", c.id, room),
		},
	})
}

// HandleLeaveRoom removes the connection from a room and informs its members.
func (g *Gateway) HandleLeaveRoom(c *Client, room string) {
	g.hub.LeaveRoom(room, c)
	g.hub.SendToRoom(room, &Event{
		Type: EventRoomInfo,
		Payload: RoomInfoPayload{
			Room:    room,
			Message: fmt.Sprintf("Connection %s left room %s", c.id, room),
		},
	})
}

// HandleGroupMessage relays a message to every member of a room.
func (g *Gateway) HandleGroupMessage(c *Client, payload RoomPayload) {
	g.hub.SendToRoom(payload.Room, &Event{
		Type: EventGroupMessage,
		Payload: GroupMessagePayload{
			Room:    payload.Room,
			From:    c.id,
			Message: payload.Message,
		},
	})
}
