package service

import (
	"time"

	"github.com/linkup-social/linkup-backend/internal/common"
	"github.com/linkup-social/linkup-backend/internal/domain"
	"github.com/linkup-social/linkup-backend/internal/repository"
)

// ChatService is the durable message store: persistence, paginated history,
// conversation rollup and read tracking. Friendship authorization is the
// realtime gateway's job, not this service's.
type ChatService interface {
	SaveMessage(senderID, receiverID uint, content, imageURL string) (*domain.Message, error)
	GetHistory(currentUserID, otherUserID uint, page, limit int, before *time.Time) (*domain.ChatHistoryResponse, error)
	GetConversations(userID uint) ([]*domain.ConversationResponse, error)
	MarkAsRead(userID, counterpartID uint) error
}

type chatService struct {
	repo     repository.MessageRepository
	userRepo repository.UserRepository
}

// NewChatService creates a new ChatService
func NewChatService(repo repository.MessageRepository, userRepo repository.UserRepository) ChatService {
	return &chatService{repo: repo, userRepo: userRepo}
}

// SaveMessage persists a message as unread with a server-assigned timestamp.
func (s *chatService) SaveMessage(senderID, receiverID uint, content, imageURL string) (*domain.Message, error) {
	msg := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		ImageURL:   imageURL,
		IsRead:     false,
	}
	if err := s.repo.Create(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetHistory returns one page of the conversation with otherUserID. Pages are
// selected newest-first, then reversed so the response reads chronologically.
func (s *chatService) GetHistory(currentUserID, otherUserID uint, page, limit int, before *time.Time) (*domain.ChatHistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	otherUser, err := s.userRepo.FindByID(otherUserID)
	if err != nil {
		return nil, err
	}
	if otherUser == nil {
		return nil, common.ErrUserNotFound
	}

	messages, total, err := s.repo.FindBetween(currentUserID, otherUserID, before, offset, limit)
	if err != nil {
		return nil, err
	}

	// Both senders are known up front; resolve their profiles once.
	senders := map[uint]*domain.User{otherUserID: otherUser}
	if currentUser, err := s.userRepo.FindByID(currentUserID); err != nil {
		return nil, err
	} else if currentUser != nil {
		senders[currentUserID] = currentUser
	}

	data := make([]domain.ChatMessageResponse, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		entry := domain.ChatMessageResponse{
			ID:        msg.ID,
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			ImageURL:  msg.ImageURL,
			IsRead:    msg.IsRead,
			IsFromMe:  msg.SenderID == currentUserID,
			CreatedAt: msg.CreatedAt,
		}
		if sender, ok := senders[msg.SenderID]; ok {
			entry.SenderName = sender.FullName()
			entry.SenderAvatar = sender.Avatar
		}
		data = append(data, entry)
	}

	return &domain.ChatHistoryResponse{
		Data:    data,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: int64(offset+len(messages)) < total,
	}, nil
}

// GetConversations returns one entry per counterpart the user has messaged
// with, ordered by most recent activity. Counterparts whose user row no
// longer resolves are silently excluded.
func (s *chatService) GetConversations(userID uint) ([]*domain.ConversationResponse, error) {
	aggregates, err := s.repo.Conversations(userID)
	if err != nil {
		return nil, err
	}

	conversations := make([]*domain.ConversationResponse, 0, len(aggregates))
	for _, agg := range aggregates {
		counterpart, err := s.userRepo.FindByID(agg.CounterpartID)
		if err != nil {
			return nil, err
		}
		if counterpart == nil {
			continue
		}

		last, err := s.repo.FindLastBetween(userID, agg.CounterpartID)
		if err != nil {
			return nil, err
		}
		if last == nil {
			continue
		}

		conversations = append(conversations, &domain.ConversationResponse{
			User: counterpart.Summary(),
			LastMessage: domain.LastMessageInfo{
				Content:   last.Content,
				Timestamp: last.CreatedAt,
				IsFromMe:  last.SenderID == userID,
			},
			UnreadCount: agg.UnreadCount,
		})
	}
	return conversations, nil
}

// MarkAsRead flips every unread message from counterpart to user to read.
// Idempotent: a repeated call changes nothing and returns no error.
func (s *chatService) MarkAsRead(userID, counterpartID uint) error {
	return s.repo.MarkConversationRead(userID, counterpartID)
}
