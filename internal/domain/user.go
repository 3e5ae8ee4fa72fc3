package domain

import (
	"context"
	"time"
)

// DefaultImageFile is the shared placeholder picture every account starts with.
const DefaultImageFile = "default.jpg"

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:20;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	ImageFile string    `json:"image_file" gorm:"size:40;not null;default:default.jpg"`
	Password  string    `json:"-" gorm:"size:60;not null"` // bcrypt hash
	Posts     []Post    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

type LoginRequest struct {
	Email    string
	Password string
	Remember bool
}

type UpdateAccountRequest struct {
	Username string
	Email    string
	Picture  *Upload
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

// AuthService covers registration and credential checks.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

// AccountService covers profile updates and the password reset workflow.
type AccountService interface {
	GetUser(ctx context.Context, id uint) (*User, error)
	UpdateAccount(ctx context.Context, userID uint, req UpdateAccountRequest) (*User, error)
	PictureURL(user *User) string
	RequestReset(ctx context.Context, email string) error
	ResetURL(ctx context.Context, email string) (string, error)
	VerifyResetToken(ctx context.Context, token string) (*User, error)
	ResetPassword(ctx context.Context, token, password string) (*User, error)
}
