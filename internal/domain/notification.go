package domain

import "time"

// Notification types produced by domain events on posts.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
)

// Notification is a persisted domain-event record for a recipient. The row is
// the source of truth; live websocket delivery is best effort only.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	SenderID    uint      `json:"sender_id"`
	Type        string    `json:"type" gorm:"size:20"`
	PostID      uint      `json:"post_id"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// CreateNotificationRequest is the domain-event ingress payload (like/comment
// events emitted by the post service).
type CreateNotificationRequest struct {
	RecipientID uint   `json:"recipientId" binding:"required"`
	SenderID    uint   `json:"senderId" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=like comment"`
	PostID      uint   `json:"postId" binding:"required"`
}

// PostSummary is the slice of the externally-owned post used to enrich
// notification payloads.
type PostSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// Post is owned by the external post service; only the title is read here.
type Post struct {
	ID    uint `gorm:"primaryKey"`
	Title string
}

// NotificationResponse is the enriched notification returned to clients and
// pushed over the live channel.
type NotificationResponse struct {
	ID        uint         `json:"id"`
	Type      string       `json:"type"`
	IsRead    bool         `json:"is_read"`
	CreatedAt time.Time    `json:"created_at"`
	Sender    UserSummary  `json:"sender"`
	Post      *PostSummary `json:"post,omitempty"`
}

// NotificationListResponse is a newest-first page of notifications.
type NotificationListResponse struct {
	Data        []NotificationResponse `json:"data"`
	Total       int64                  `json:"total"`
	CurrentPage int                    `json:"currentPage"`
	LastPage    int                    `json:"lastPage"`
	NextPage    *int                   `json:"nextPage"`
	PrevPage    *int                   `json:"prevPage"`
}
