package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidToken covers every verification failure. Callers get no detail
// about which check failed.
var ErrInvalidToken = errors.New("invalid token")

const resetPurpose = "password_reset"

// Claims defines the reset token payload.
type Claims struct {
	UserID  uint   `json:"user_id"`
	Purpose string `json:"purpose"`
	jwtlib.RegisteredClaims
}

// TokenManager issues and redeems password reset tokens for plain user IDs.
type TokenManager interface {
	Issue(userID uint) (string, error)
	Verify(ctx context.Context, tokenString string) (uint, error)
	Revoke(ctx context.Context, tokenString string) error
}

// NewTokenManager creates a TokenManager. A nil redis client disables revocation.
func NewTokenManager(secretKey string, ttl time.Duration, redisClient *redis.Client) TokenManager {
	return &tokenManager{secretKey: []byte(secretKey), ttl: ttl, redis: redisClient, now: time.Now}
}

type tokenManager struct {
	secretKey []byte
	ttl       time.Duration
	redis     *redis.Client
	now       func() time.Time
}

// Issue signs a token for userID that expires after the configured TTL.
func (j *tokenManager) Issue(userID uint) (string, error) {
	now := j.now()
	claims := Claims{
		UserID:  userID,
		Purpose: resetPurpose,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the user ID encoded in a valid, unexpired, unrevoked token.
func (j *tokenManager) Verify(ctx context.Context, tokenString string) (uint, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return 0, ErrInvalidToken
	}
	revoked, err := j.isRevoked(ctx, tokenString)
	if err != nil {
		return 0, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// Revoke blacklists the token until it would expire anyway.
func (j *tokenManager) Revoke(ctx context.Context, tokenString string) error {
	if j.redis == nil {
		return nil
	}
	claims, err := j.parse(tokenString)
	if err != nil {
		return ErrInvalidToken
	}
	ttl := claims.ExpiresAt.Time.Sub(j.now())
	if ttl <= 0 {
		return nil
	}
	return j.redis.Set(ctx, j.redisKey(tokenString), "revoked", ttl).Err()
}

func (j *tokenManager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(tokenString, claims, func(token *jwtlib.Token) (interface{}, error) {
		return j.secretKey, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Purpose != resetPurpose || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (j *tokenManager) isRevoked(ctx context.Context, tokenString string) (bool, error) {
	if j.redis == nil {
		return false, nil
	}
	n, err := j.redis.Exists(ctx, j.redisKey(tokenString)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (j *tokenManager) redisKey(tokenString string) string {
	return "jwt:reset:revoked:" + tokenString
}
