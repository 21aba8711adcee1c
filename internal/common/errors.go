package common

import "errors"

// Business logic errors. The handler layer maps them to HTTP statuses with
// StatusForError; anything unknown is treated as an infrastructure failure.
var (
	// Not found
	ErrUserNotFound          = errors.New("user not found")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrNotFriends            = errors.New("you are not friends with this user")
	ErrNotificationNotFound  = errors.New("notification not found")

	// Conflict
	ErrRequestAlreadySent = errors.New("friend request already sent")
	ErrAlreadyFriends     = errors.New("you are already friends")
	ErrPairBlocked        = errors.New("cannot send friend request to blocked user")
	ErrStaleFriendship    = errors.New("friendship was modified concurrently")

	// Bad request
	ErrSelfRequest   = errors.New("you cannot send friend request to yourself")
	ErrSelfBlock     = errors.New("you cannot block yourself")
	ErrNotAddressee  = errors.New("you are not authorized to respond to this request")
	ErrNotPending    = errors.New("this request cannot be responded to")
	ErrInvalidAction = errors.New("invalid action")

	// Unauthorized (realtime messaging gate)
	ErrMessagingNotAllowed = errors.New("you must be friends to send private messages")
)
