package repository

import (
	"errors"

	"github.com/linkup-social/linkup-backend/internal/domain"
	"gorm.io/gorm"
)

// PostRepository reads the externally-owned posts table. Only the summary
// needed for notification payload enrichment is exposed.
type PostRepository interface {
	FindSummary(id uint) (*domain.PostSummary, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// FindSummary returns the post summary, or nil when the post is gone.
func (r *postRepository) FindSummary(id uint) (*domain.PostSummary, error) {
	var post domain.Post
	err := r.db.Select("id", "title").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.PostSummary{ID: post.ID, Title: post.Title}, nil
}
