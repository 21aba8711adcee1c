package repository

import (
	"errors"

	"github.com/linkup-social/linkup-backend/internal/domain"
	"gorm.io/gorm"
)

// NotificationRepository notification data access interface
type NotificationRepository interface {
	Create(n *domain.Notification) error
	FindByID(id uint) (*domain.Notification, error)
	List(recipientID uint, offset, limit int) ([]*domain.Notification, int64, error)
	CountUnread(recipientID uint) (int64, error)
	MarkAsRead(id uint) error
	MarkAllAsRead(recipientID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts a new notification
func (r *notificationRepository) Create(n *domain.Notification) error {
	return r.db.Create(n).Error
}

// FindByID returns a notification by id, or nil when no row exists.
func (r *notificationRepository) FindByID(id uint) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.First(&n, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// List returns one newest-first page of a recipient's notifications plus the
// total count.
func (r *notificationRepository) List(recipientID uint, offset, limit int) ([]*domain.Notification, int64, error) {
	var total int64
	if err := r.db.Model(&domain.Notification{}).
		Where("recipient_id = ?", recipientID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*domain.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}

// CountUnread returns the number of unread notifications for a recipient.
func (r *notificationRepository) CountUnread(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead marks a single notification as read.
func (r *notificationRepository) MarkAsRead(id uint) error {
	return r.db.Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

// MarkAllAsRead marks every unread notification of a recipient as read.
// Matching zero rows is not an error, so the call is idempotent.
func (r *notificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&domain.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}
