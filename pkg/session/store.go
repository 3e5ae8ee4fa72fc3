package session

import (
	"context"
	"time"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the server-side state behind a browser cookie.
type Session struct {
	ID         string    `json:"id"`
	UserID     uint      `json:"user_id,omitempty"`
	Theme      string    `json:"theme,omitempty"`
	Flashes    []Flash   `json:"flashes,omitempty"`
	Persistent bool      `json:"persistent,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}

func (s *Session) clone() *Session {
	c := *s
	if s.Flashes != nil {
		c.Flashes = append([]Flash(nil), s.Flashes...)
	}
	return &c
}

// Store persists sessions by ID. Get returns nil, nil for unknown or expired IDs.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
