package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository with the given GORM DB instance.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ImageFile == "" {
		user.ImageFile = domain.DefaultImageFile
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound("user", err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound("user", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound("user", err)
	}
	return &user, nil
}

// Update writes the profile fields of an existing user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	result := r.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"username":   user.Username,
		"email":      user.Email,
		"image_file": user.ImageFile,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound)
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func notFound(entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", entity, err)
}
