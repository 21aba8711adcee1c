package service

import (
	"math"

	"github.com/linkup-social/linkup-backend/internal/common"
	"github.com/linkup-social/linkup-backend/internal/domain"
	"github.com/linkup-social/linkup-backend/internal/repository"
	"github.com/linkup-social/linkup-backend/pkg/logger"
)

// RealtimePublisher pushes an event to a user's live connection, if any.
// Implemented by ws.Hub. Returns whether the event reached a local
// connection; failure or absence never affects persistence.
type RealtimePublisher interface {
	SendToUser(userID uint, eventType string, payload interface{}) bool
}

// NotificationService turns domain events (likes, comments) into persisted
// notifications with best-effort live delivery. The persisted row is the
// source of truth; the websocket push is fire-and-forget.
type NotificationService interface {
	Create(input *domain.CreateNotificationRequest) (*domain.NotificationResponse, error)
	List(userID uint, page, itemsPerPage int) (*domain.NotificationListResponse, error)
	UnreadCount(userID uint) (int64, error)
	MarkAsRead(notificationID, userID uint) error
	MarkAllAsRead(userID uint) error
}

type notificationService struct {
	repo      repository.NotificationRepository
	userRepo  repository.UserRepository
	postRepo  repository.PostRepository
	publisher RealtimePublisher
}

// NewNotificationService creates a new NotificationService. publisher may be
// nil when no live channel is wired.
func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	publisher RealtimePublisher,
) NotificationService {
	return &notificationService{
		repo:      repo,
		userRepo:  userRepo,
		postRepo:  postRepo,
		publisher: publisher,
	}
}

// Create persists the notification, then attempts live delivery. A user's own
// actions never notify themselves: that case is a silent no-op returning
// (nil, nil). Persistence must complete before any emit is attempted.
func (s *notificationService) Create(input *domain.CreateNotificationRequest) (*domain.NotificationResponse, error) {
	if input.RecipientID == input.SenderID {
		return nil, nil
	}

	notification := &domain.Notification{
		RecipientID: input.RecipientID,
		SenderID:    input.SenderID,
		Type:        input.Type,
		PostID:      input.PostID,
		IsRead:      false,
	}
	if err := s.repo.Create(notification); err != nil {
		return nil, err
	}

	response, err := s.enrich(notification)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		delivered := s.publisher.SendToUser(input.RecipientID, "newNotification", response)
		if !delivered {
			logger.GetLogger().Debug().
				Uint("recipient_id", input.RecipientID).
				Uint("notification_id", notification.ID).
				Msg("recipient offline, notification stored only")
		}
	}

	return response, nil
}

// enrich attaches the sender profile and post summary to a persisted row.
func (s *notificationService) enrich(n *domain.Notification) (*domain.NotificationResponse, error) {
	response := &domain.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		Sender:    domain.UserSummary{ID: n.SenderID},
	}

	sender, err := s.userRepo.FindByID(n.SenderID)
	if err != nil {
		return nil, err
	}
	if sender != nil {
		response.Sender = sender.Summary()
	}

	post, err := s.postRepo.FindSummary(n.PostID)
	if err != nil {
		return nil, err
	}
	response.Post = post

	return response, nil
}

// List returns one newest-first page of the user's notifications.
func (s *notificationService) List(userID uint, page, itemsPerPage int) (*domain.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if itemsPerPage < 1 || itemsPerPage > 50 {
		itemsPerPage = 10
	}
	offset := (page - 1) * itemsPerPage

	notifications, total, err := s.repo.List(userID, offset, itemsPerPage)
	if err != nil {
		return nil, err
	}

	data := make([]domain.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		entry, err := s.enrich(n)
		if err != nil {
			return nil, err
		}
		data = append(data, *entry)
	}

	lastPage := int(math.Ceil(float64(total) / float64(itemsPerPage)))
	response := &domain.NotificationListResponse{
		Data:        data,
		Total:       total,
		CurrentPage: page,
		LastPage:    lastPage,
	}
	if next := page + 1; next <= lastPage {
		response.NextPage = &next
	}
	if prev := page - 1; prev >= 1 {
		response.PrevPage = &prev
	}
	return response, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	return s.repo.CountUnread(userID)
}

// MarkAsRead marks one notification as read. Only the recipient may do so;
// anyone else gets NotFound, same as a missing row.
func (s *notificationService) MarkAsRead(notificationID, userID uint) error {
	notification, err := s.repo.FindByID(notificationID)
	if err != nil {
		return err
	}
	if notification == nil || notification.RecipientID != userID {
		return common.ErrNotificationNotFound
	}
	return s.repo.MarkAsRead(notificationID)
}

// MarkAllAsRead flips every unread notification of the user. Idempotent.
func (s *notificationService) MarkAllAsRead(userID uint) error {
	return s.repo.MarkAllAsRead(userID)
}
