package ws

import (
	"encoding/json"
	"time"
)

// Inbound event types.
const (
	EventPrivateMessage = "privateMessage"
	EventJoinRoom       = "joinRoom"
	EventLeaveRoom      = "leaveRoom"
	EventGroupMessage   = "groupMessage"
	EventNewMessage     = "newMessage"
)

// Outbound event types.
const (
	EventUserJoined      = "user-joined"
	EventUserLeft        = "user-left"
	EventMessageSent     = "messageSent"
	EventError           = "error"
	EventRoomInfo        = "roomInfo"
	EventNewNotification = "newNotification"
)

// Event is the wire envelope for outbound realtime traffic.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// inboundEvent defers payload decoding until the type is known.
type inboundEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PrivateMessagePayload is the inbound direct-message event.
type PrivateMessagePayload struct {
	FromUserID uint   `json:"fromUserId"`
	ToUserID   uint   `json:"toUserId"`
	Message    string `json:"message"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// RoomPayload covers the room pass-through events.
type RoomPayload struct {
	Room    string `json:"room"`
	Message string `json:"message,omitempty"`
}

// PresencePayload announces a user joining or leaving.
type PresencePayload struct {
	UserID  uint   `json:"userId"`
	Message string `json:"message"`
}

// MessageDeliveryPayload carries a persisted message to the recipient and,
// with Delivered set, back to the sender as the acknowledgment.
type MessageDeliveryPayload struct {
	ID        uint      `json:"id"`
	From      uint      `json:"from"`
	To        uint      `json:"to"`
	Message   string    `json:"message"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"isRead"`
	// Delivered distinguishes "delivered live" from "stored, recipient
	// offline" on the sender ack. Absent on the recipient copy.
	Delivered *bool `json:"delivered,omitempty"`
}

// ErrorPayload is sent back to the offending connection.
type ErrorPayload struct {
	Message string `json:"message"`
}

// RoomInfoPayload announces room membership changes.
type RoomInfoPayload struct {
	Room    string `json:"room"`
	Message string `json:"message"`
}

// GroupMessagePayload is a room broadcast relayed as-is.
type GroupMessagePayload struct {
	Room    string `json:"room"`
	From    string `json:"from"`
	Message string `json:"message"`
}
