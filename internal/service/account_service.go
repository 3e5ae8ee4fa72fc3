package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/mailer"
	"seungpyo.lee/PersonalBlog/internal/metrics"
	"seungpyo.lee/PersonalBlog/internal/util"
	"seungpyo.lee/PersonalBlog/pkg/jwt"
)

const resetSubject = "Password Reset Request"

// Pictures stores profile pictures.
type Pictures interface {
	Save(ctx context.Context, upload domain.Upload) (string, error)
	Remove(ctx context.Context, name string) error
	URL(name string) string
}

type accountService struct {
	users    domain.UserRepository
	tokens   jwt.TokenManager
	mail     mailer.Mailer
	pictures Pictures
	baseURL  string
	log      zerolog.Logger
}

func NewAccountService(
	users domain.UserRepository,
	tokens jwt.TokenManager,
	mail mailer.Mailer,
	pictures Pictures,
	baseURL string,
	log zerolog.Logger,
) domain.AccountService {
	return &accountService{
		users:    users,
		tokens:   tokens,
		mail:     mail,
		pictures: pictures,
		baseURL:  baseURL,
		log:      log,
	}
}

func (s *accountService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *accountService) PictureURL(user *domain.User) string {
	return s.pictures.URL(user.ImageFile)
}

// UpdateAccount changes username and email and optionally swaps the
// profile picture. A rejected picture leaves the account untouched.
func (s *accountService) UpdateAccount(ctx context.Context, userID uint, req domain.UpdateAccountRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous := user.ImageFile
	var stored string
	if req.Picture != nil {
		stored, err = s.pictures.Save(ctx, *req.Picture)
		if err != nil {
			return nil, err
		}
		user.ImageFile = stored
	}
	user.Username = req.Username
	user.Email = req.Email

	if err := s.users.Update(ctx, user); err != nil {
		if stored != "" {
			if rmErr := s.pictures.Remove(ctx, stored); rmErr != nil {
				s.log.Warn().Err(rmErr).Str("picture", stored).Msg("failed to remove orphaned picture")
			}
		}
		return nil, err
	}

	if stored != "" {
		metrics.PicturesUploadedTotal.Inc()
		if err := s.pictures.Remove(ctx, previous); err != nil {
			s.log.Warn().Err(err).Str("picture", previous).Msg("failed to remove previous picture")
		}
	}
	return user, nil
}

// RequestReset issues a token for the account and emails the reset link.
func (s *accountService) RequestReset(ctx context.Context, email string) error {
	user, link, err := s.resetLink(ctx, email)
	if err != nil {
		return err
	}
	msg := domain.Message{
		To:      user.Email,
		Subject: resetSubject,
		Body: "To reset your password, visit the following link:\n" +
			link + "\n\n" +
			"If you did not make this request then simply ignore this email and no changes will be made.\n",
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()
	return nil
}

// ResetURL returns a reset link without sending it.
func (s *accountService) ResetURL(ctx context.Context, email string) (string, error) {
	_, link, err := s.resetLink(ctx, email)
	return link, err
}

func (s *accountService) resetLink(ctx context.Context, email string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue reset token: %w", err)
	}
	return user, s.baseURL + "/reset_password/" + token, nil
}

// VerifyResetToken resolves a token to its account. Every failure, an
// unknown account included, is domain.ErrInvalidToken.
func (s *accountService) VerifyResetToken(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.tokens.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) {
			metrics.PasswordResetsTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.PasswordResetsTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// ResetPassword redeems the token and stores the new password hash.
func (s *accountService) ResetPassword(ctx context.Context, token, password string) (*domain.User, error) {
	user, err := s.VerifyResetToken(ctx, token)
	if err != nil {
		return nil, err
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, err
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to revoke reset token")
	}
	metrics.PasswordResetsTotal.WithLabelValues("redeemed").Inc()
	return user, nil
}
