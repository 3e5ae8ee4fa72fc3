package service

import (
	"context"
	"errors"
	"fmt"

	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/metrics"
	"seungpyo.lee/PersonalBlog/internal/util"
)

type authService struct {
	users domain.UserRepository
}

// NewAuthService creates a new AuthService over the given user repository.
func NewAuthService(users domain.UserRepository) domain.AuthService {
	return &authService{users: users}
}

// Register stores a new account with a bcrypt hashed password. Uniqueness
// is checked by the registration form before this is called.
func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &domain.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hash,
		ImageFile: domain.DefaultImageFile,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	metrics.UsersRegisteredTotal.Inc()
	return user, nil
}

// Login returns the account whose hash matches. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.CheckPassword(user.Password, req.Password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}

func (s *authService) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return exists(s.users.GetByUsername(ctx, username))
}

func (s *authService) EmailTaken(ctx context.Context, email string) (bool, error) {
	return exists(s.users.GetByEmail(ctx, email))
}

func exists(_ *domain.User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}
