package domain

import "time"

// Message is one direct message between two users. Rows are created once on
// send and mutated only to flip is_read; nothing here deletes them.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SenderID   uint      `json:"sender_id" gorm:"index:idx_messages_pair"`
	ReceiverID uint      `json:"receiver_id" gorm:"index:idx_messages_pair"`
	Content    string    `json:"content" gorm:"type:text"`
	ImageURL   string    `json:"image_url,omitempty" gorm:"size:512"`
	IsRead     bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// ChatMessageResponse is one history entry, enriched with the sender profile.
type ChatMessageResponse struct {
	ID           uint      `json:"id"`
	SenderID     uint      `json:"senderId"`
	SenderName   string    `json:"senderName"`
	SenderAvatar string    `json:"senderAvatar"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	IsRead       bool      `json:"isRead"`
	IsFromMe     bool      `json:"isFromMe"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ChatHistoryResponse is a chronological page of a two-user conversation.
type ChatHistoryResponse struct {
	Data    []ChatMessageResponse `json:"data"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
	HasMore bool                  `json:"hasMore"`
}

// LastMessageInfo summarizes the newest message of a conversation.
type LastMessageInfo struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsFromMe  bool      `json:"isFromMe"`
}

// ConversationResponse is one counterpart entry of the conversation list.
type ConversationResponse struct {
	User        UserSummary     `json:"user"`
	LastMessage LastMessageInfo `json:"lastMessage"`
	UnreadCount int64           `json:"unreadCount"`
}

// ConversationAggregate is the raw per-counterpart rollup computed over the
// messages table. Conversations are derived, never persisted.
type ConversationAggregate struct {
	CounterpartID uint      `gorm:"column:counterpart_id"`
	LastMessageAt time.Time `gorm:"column:last_message_at"`
	UnreadCount   int64     `gorm:"column:unread_count"`
}
