package repository

import (
	"errors"
	"time"

	"github.com/linkup-social/linkup-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(msg *domain.Message) error
	FindBetween(userA, userB uint, before *time.Time, offset, limit int) ([]*domain.Message, int64, error)
	FindLastBetween(userA, userB uint) (*domain.Message, error)
	Conversations(userID uint) ([]domain.ConversationAggregate, error)
	MarkConversationRead(userID, counterpartID uint) error
	CountUnreadFrom(userID, counterpartID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// pairScope restricts a query to messages exchanged between two users, in
// either direction, optionally cut off at a timestamp.
func pairScope(a, b uint, before *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			a, b, b, a,
		)
		if before != nil {
			db = db.Where("created_at < ?", *before)
		}
		return db
	}
}

// Create persists a new message row.
func (r *messageRepository) Create(msg *domain.Message) error {
	return r.db.Create(msg).Error
}

// FindBetween returns one newest-first page of the two-user conversation plus
// the total row count for the same filter.
func (r *messageRepository) FindBetween(userA, userB uint, before *time.Time, offset, limit int) ([]*domain.Message, int64, error) {
	var total int64
	if err := r.db.Model(&domain.Message{}).
		Scopes(pairScope(userA, userB, before)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*domain.Message
	err := r.db.Scopes(pairScope(userA, userB, before)).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

// FindLastBetween returns the newest message of the pair, or nil when the two
// users never exchanged one.
func (r *messageRepository) FindLastBetween(userA, userB uint) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.Scopes(pairScope(userA, userB, nil)).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// Conversations rolls up every counterpart the user has exchanged messages
// with: last-message timestamp and the count of unread messages addressed to
// the user, ordered by most recent activity.
func (r *messageRepository) Conversations(userID uint) ([]domain.ConversationAggregate, error) {
	var rows []domain.ConversationAggregate
	err := r.db.Raw(`
		SELECT
			CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS counterpart_id,
			MAX(created_at) AS last_message_at,
			SUM(CASE WHEN receiver_id = ? AND is_read = false THEN 1 ELSE 0 END) AS unread_count
		FROM messages
		WHERE sender_id = ? OR receiver_id = ?
		GROUP BY counterpart_id
		ORDER BY last_message_at DESC`,
		userID, userID, userID, userID,
	).Scan(&rows).Error
	return rows, err
}

// MarkConversationRead flips every unread message from counterpart to user to
// read. Repeating the call matches zero rows and is a no-op.
func (r *messageRepository) MarkConversationRead(userID, counterpartID uint) error {
	return r.db.Model(&domain.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", counterpartID, userID, false).
		Update("is_read", true).Error
}

// CountUnreadFrom counts unread messages sent by counterpart to user.
func (r *messageRepository) CountUnreadFrom(userID, counterpartID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", counterpartID, userID, false).
		Count(&count).Error
	return count, err
}
