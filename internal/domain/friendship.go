package domain

import (
	"fmt"
	"time"
)

// Friendship status values. Absence of a row means no relationship.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
	FriendshipBlocked  = "blocked"
)

// Friend request response actions.
const (
	FriendActionAccept = "accept"
	FriendActionReject = "reject"
)

// Friendship is the single relationship row for an unordered user pair.
// PairKey canonicalizes the pair so a (A,B) row and a (B,A) row can never
// coexist; the unique index enforces it at the database level. Version guards
// read-modify-write sequences against concurrent mutation of the same pair.
type Friendship struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RequesterID uint      `json:"requester_id" gorm:"index"`
	AddresseeID uint      `json:"addressee_id" gorm:"index"`
	PairKey     string    `json:"-" gorm:"size:64;uniqueIndex"`
	Status      string    `json:"status" gorm:"size:20;default:'pending'"`
	Version     int       `json:"-" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PairKeyFor returns the canonical unordered-pair key for two user ids.
// The lower id always comes first.
func PairKeyFor(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// SendFriendRequestRequest is the body of POST /friend/request.
type SendFriendRequestRequest struct {
	AddresseeID uint `json:"addresseeId" binding:"required"`
}

// RespondFriendRequestRequest is the body of POST /friend/respond.
type RespondFriendRequestRequest struct {
	FriendshipID uint   `json:"friendshipId" binding:"required"`
	Action       string `json:"action" binding:"required,oneof=accept reject"`
}

// FriendshipStatusResponse reports the relationship between two users.
// Status is nil when no row exists.
type FriendshipStatusResponse struct {
	Status       *string `json:"status"`
	FriendshipID uint    `json:"friendshipId,omitempty"`
	RequesterID  uint    `json:"requester_id,omitempty"`
	AddresseeID  uint    `json:"addressee_id,omitempty"`
	Message      string  `json:"message,omitempty"`
}

// FriendResponse is one entry of the accepted-friends listing.
type FriendResponse struct {
	ID           uint      `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	FriendshipID uint      `json:"friendshipId"`
	FriendsSince time.Time `json:"friendsSince"`
}

// PendingRequestResponse is one incoming friend request awaiting a response.
type PendingRequestResponse struct {
	FriendshipID uint        `json:"friendshipId"`
	Requester    UserSummary `json:"requester"`
	CreatedAt    time.Time   `json:"createdAt"`
}
