package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository with the given GORM DB instance.
func NewPostRepository(db *gorm.DB) domain.PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post into the database.
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post and its author.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, notFound("post", err)
	}
	return &post, nil
}

// List returns one window of posts, newest first, plus the unpaged total.
func (r *postRepository) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, int64, error) {
	db := r.db.WithContext(ctx)
	scoped := func() *gorm.DB {
		q := db.Model(&domain.Post{})
		if filter.UserID != nil {
			q = q.Where("user_id = ?", *filter.UserID)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	posts := []*domain.Post{}
	if total == 0 || int64(filter.Offset) >= total {
		return posts, total, nil
	}
	query := scoped().Preload("Author").Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, total, nil
}

// Update writes title and content in place.
func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	result := r.db.WithContext(ctx).Model(post).Updates(map[string]interface{}{
		"title":   post.Title,
		"content": post.Content,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("post %d: %w", post.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a post by its ID from the database.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Post{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Migrate creates or updates the tables for all blog entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.Post{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
