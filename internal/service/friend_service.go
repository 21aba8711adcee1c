package service

import (
	"errors"

	"github.com/linkup-social/linkup-backend/internal/common"
	"github.com/linkup-social/linkup-backend/internal/domain"
	"github.com/linkup-social/linkup-backend/internal/repository"
	"gorm.io/gorm"
)

// FriendService is the friendship state machine over the persisted pair row.
// States: pending, accepted, rejected, blocked; no row means no relationship.
type FriendService interface {
	SendRequest(requesterID, addresseeID uint) (*domain.Friendship, error)
	Respond(userID, friendshipID uint, action string) (*domain.Friendship, error)
	Unfriend(userID, friendID uint) error
	Block(userID, targetID uint) (*domain.Friendship, error)
	AreFriends(userA, userB uint) (bool, error)
	Status(userA, userB uint) (*domain.FriendshipStatusResponse, error)
	ListFriends(userID uint, page, limit int) ([]*domain.FriendResponse, *common.Meta, error)
	ListPending(userID uint) ([]*domain.PendingRequestResponse, error)
}

type friendService struct {
	repo     repository.FriendshipRepository
	userRepo repository.UserRepository
}

// NewFriendService creates a new FriendService
func NewFriendService(repo repository.FriendshipRepository, userRepo repository.UserRepository) FriendService {
	return &friendService{repo: repo, userRepo: userRepo}
}

// SendRequest creates a pending request toward addressee, or revives a
// previously rejected pair with the caller as the new requester. Pending,
// accepted and blocked pairs all refuse a new request.
func (s *friendService) SendRequest(requesterID, addresseeID uint) (*domain.Friendship, error) {
	if requesterID == addresseeID {
		return nil, common.ErrSelfRequest
	}

	exists, err := s.userRepo.Exists(addresseeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.ErrUserNotFound
	}

	existing, err := s.repo.FindByPair(requesterID, addresseeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case domain.FriendshipPending:
			return nil, common.ErrRequestAlreadySent
		case domain.FriendshipAccepted:
			return nil, common.ErrAlreadyFriends
		case domain.FriendshipBlocked:
			return nil, common.ErrPairBlocked
		case domain.FriendshipRejected:
			// Re-request after rejection, re-assigning the direction to the
			// new caller pair.
			err := s.repo.UpdateGuarded(existing, map[string]interface{}{
				"status":       domain.FriendshipPending,
				"requester_id": requesterID,
				"addressee_id": addresseeID,
			})
			if err != nil {
				return nil, err
			}
			existing.Status = domain.FriendshipPending
			existing.RequesterID = requesterID
			existing.AddresseeID = addresseeID
			return existing, nil
		}
	}

	friendship := &domain.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		PairKey:     domain.PairKeyFor(requesterID, addresseeID),
		Status:      domain.FriendshipPending,
	}
	if err := s.repo.Create(friendship); err != nil {
		// A concurrent request for the same pair hit the unique pair index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrRequestAlreadySent
		}
		return nil, err
	}
	return friendship, nil
}

// Respond accepts or rejects a pending request. Only the addressee may
// respond, and only while the row is still pending.
func (s *friendService) Respond(userID, friendshipID uint, action string) (*domain.Friendship, error) {
	if action != domain.FriendActionAccept && action != domain.FriendActionReject {
		return nil, common.ErrInvalidAction
	}

	friendship, err := s.repo.FindByID(friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship == nil {
		return nil, common.ErrFriendRequestNotFound
	}
	if friendship.AddresseeID != userID {
		return nil, common.ErrNotAddressee
	}
	if friendship.Status != domain.FriendshipPending {
		return nil, common.ErrNotPending
	}

	newStatus := domain.FriendshipAccepted
	if action == domain.FriendActionReject {
		newStatus = domain.FriendshipRejected
	}

	err = s.repo.UpdateGuarded(friendship, map[string]interface{}{"status": newStatus})
	if err != nil {
		return nil, err
	}
	friendship.Status = newStatus
	return friendship, nil
}

// Unfriend deletes the accepted row for the pair, in either direction.
func (s *friendService) Unfriend(userID, friendID uint) error {
	friendship, err := s.repo.FindAcceptedPair(userID, friendID)
	if err != nil {
		return err
	}
	if friendship == nil {
		return common.ErrNotFriends
	}
	return s.repo.Delete(friendship.ID)
}

// Block forces the pair into blocked with the blocker as requester,
// overwriting any existing row or creating one. Blocked is sticky: nothing in
// this service unblocks a pair.
func (s *friendService) Block(userID, targetID uint) (*domain.Friendship, error) {
	if userID == targetID {
		return nil, common.ErrSelfBlock
	}

	exists, err := s.userRepo.Exists(targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.ErrUserNotFound
	}

	friendship, err := s.repo.FindByPair(userID, targetID)
	if err != nil {
		return nil, err
	}
	if friendship != nil {
		err := s.repo.UpdateGuarded(friendship, map[string]interface{}{
			"status":       domain.FriendshipBlocked,
			"requester_id": userID,
			"addressee_id": targetID,
		})
		if err != nil {
			return nil, err
		}
		friendship.Status = domain.FriendshipBlocked
		friendship.RequesterID = userID
		friendship.AddresseeID = targetID
		return friendship, nil
	}

	friendship = &domain.Friendship{
		RequesterID: userID,
		AddresseeID: targetID,
		PairKey:     domain.PairKeyFor(userID, targetID),
		Status:      domain.FriendshipBlocked,
	}
	if err := s.repo.Create(friendship); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrStaleFriendship
		}
		return nil, err
	}
	return friendship, nil
}

// AreFriends reports whether the pair has an accepted row, direction-agnostic.
// The realtime gateway uses it to gate private messaging.
func (s *friendService) AreFriends(userA, userB uint) (bool, error) {
	friendship, err := s.repo.FindAcceptedPair(userA, userB)
	if err != nil {
		return false, err
	}
	return friendship != nil, nil
}

// Status returns the relationship row for the pair, or an explicit
// no-relationship result.
func (s *friendService) Status(userA, userB uint) (*domain.FriendshipStatusResponse, error) {
	friendship, err := s.repo.FindByPair(userA, userB)
	if err != nil {
		return nil, err
	}
	if friendship == nil {
		return &domain.FriendshipStatusResponse{
			Status:  nil,
			Message: "No friendship exists",
		}, nil
	}
	status := friendship.Status
	return &domain.FriendshipStatusResponse{
		Status:       &status,
		FriendshipID: friendship.ID,
		RequesterID:  friendship.RequesterID,
		AddresseeID:  friendship.AddresseeID,
	}, nil
}

// ListFriends returns one page of accepted friends with counterpart profiles.
// A counterpart whose user row no longer resolves is skipped.
func (s *friendService) ListFriends(userID uint, page, limit int) ([]*domain.FriendResponse, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	friendships, total, err := s.repo.ListAccepted(userID, offset, limit)
	if err != nil {
		return nil, nil, err
	}

	friends := make([]*domain.FriendResponse, 0, len(friendships))
	for _, f := range friendships {
		counterpartID := f.RequesterID
		if counterpartID == userID {
			counterpartID = f.AddresseeID
		}
		user, err := s.userRepo.FindByID(counterpartID)
		if err != nil {
			return nil, nil, err
		}
		if user == nil {
			continue
		}
		friends = append(friends, &domain.FriendResponse{
			ID:           user.ID,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			Email:        user.Email,
			Avatar:       user.Avatar,
			FriendshipID: f.ID,
			FriendsSince: f.CreatedAt,
		})
	}

	meta := &common.Meta{Page: page, Limit: limit, Total: total}
	return friends, meta, nil
}

// ListPending returns incoming pending requests with requester profiles,
// newest first.
func (s *friendService) ListPending(userID uint) ([]*domain.PendingRequestResponse, error) {
	friendships, err := s.repo.ListPendingFor(userID)
	if err != nil {
		return nil, err
	}

	requests := make([]*domain.PendingRequestResponse, 0, len(friendships))
	for _, f := range friendships {
		requester, err := s.userRepo.FindByID(f.RequesterID)
		if err != nil {
			return nil, err
		}
		if requester == nil {
			continue
		}
		requests = append(requests, &domain.PendingRequestResponse{
			FriendshipID: f.ID,
			Requester:    requester.Summary(),
			CreatedAt:    f.CreatedAt,
		})
	}
	return requests, nil
}
