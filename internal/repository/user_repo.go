package repository

import (
	"errors"

	"github.com/linkup-social/linkup-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository reads the externally-owned users table. This service never
// writes to it.
type UserRepository interface {
	FindByID(id uint) (*domain.User, error)
	Exists(id uint) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByID returns a user by id, or nil when no such user exists.
func (r *userRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a user row with the given id exists.
func (r *userRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
