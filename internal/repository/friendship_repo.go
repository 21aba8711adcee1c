package repository

import (
	"errors"

	"github.com/linkup-social/linkup-backend/internal/common"
	"github.com/linkup-social/linkup-backend/internal/domain"
	"gorm.io/gorm"
)

// FriendshipRepository friendship data access interface. All pair lookups go
// through the canonical pair key, so direction never produces duplicate rows.
type FriendshipRepository interface {
	Create(f *domain.Friendship) error
	FindByID(id uint) (*domain.Friendship, error)
	FindByPair(a, b uint) (*domain.Friendship, error)
	FindAcceptedPair(a, b uint) (*domain.Friendship, error)
	UpdateGuarded(f *domain.Friendship, updates map[string]interface{}) error
	Delete(id uint) error
	ListAccepted(userID uint, offset, limit int) ([]*domain.Friendship, int64, error)
	ListPendingFor(addresseeID uint) ([]*domain.Friendship, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository creates a new FriendshipRepository
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// Create inserts a new friendship row. The unique pair-key index turns a
// concurrent duplicate insert into gorm.ErrDuplicatedKey.
func (r *friendshipRepository) Create(f *domain.Friendship) error {
	if f.PairKey == "" {
		f.PairKey = domain.PairKeyFor(f.RequesterID, f.AddresseeID)
	}
	return r.db.Create(f).Error
}

// FindByID returns a friendship by id, or nil when no row exists.
func (r *friendshipRepository) FindByID(id uint) (*domain.Friendship, error) {
	var f domain.Friendship
	err := r.db.First(&f, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// FindByPair returns the row for the unordered pair, or nil when none exists.
func (r *friendshipRepository) FindByPair(a, b uint) (*domain.Friendship, error) {
	var f domain.Friendship
	err := r.db.Where("pair_key = ?", domain.PairKeyFor(a, b)).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// FindAcceptedPair returns the accepted row for the pair, or nil.
func (r *friendshipRepository) FindAcceptedPair(a, b uint) (*domain.Friendship, error) {
	var f domain.Friendship
	err := r.db.Where("pair_key = ? AND status = ?", domain.PairKeyFor(a, b), domain.FriendshipAccepted).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// UpdateGuarded applies updates only if the row still carries the version the
// caller read. A lost race surfaces as ErrStaleFriendship instead of silently
// overwriting a concurrent accept/block.
func (r *friendshipRepository) UpdateGuarded(f *domain.Friendship, updates map[string]interface{}) error {
	updates["version"] = f.Version + 1
	result := r.db.Model(&domain.Friendship{}).
		Where("id = ? AND version = ?", f.ID, f.Version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrStaleFriendship
	}
	f.Version++
	return nil
}

// Delete removes a friendship row by id.
func (r *friendshipRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Friendship{}, id).Error
}

// ListAccepted returns a page of accepted friendships involving userID,
// newest friendship first, plus the total count.
func (r *friendshipRepository) ListAccepted(userID uint, offset, limit int) ([]*domain.Friendship, int64, error) {
	var total int64
	if err := r.db.Model(&domain.Friendship{}).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", domain.FriendshipAccepted, userID, userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var friendships []*domain.Friendship
	err := r.db.Where("status = ? AND (requester_id = ? OR addressee_id = ?)", domain.FriendshipAccepted, userID, userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&friendships).Error
	return friendships, total, err
}

// ListPendingFor returns incoming pending requests for a user, newest first.
func (r *friendshipRepository) ListPendingFor(addresseeID uint) ([]*domain.Friendship, error) {
	var friendships []*domain.Friendship
	err := r.db.Where("addressee_id = ? AND status = ?", addresseeID, domain.FriendshipPending).
		Order("created_at DESC").
		Find(&friendships).Error
	return friendships, err
}
