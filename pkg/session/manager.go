package session

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Config struct {
	Secret      string
	TTL         time.Duration
	RememberTTL time.Duration
	Cookie      CookieOptions
}

// Manager binds browser cookies to stored sessions.
type Manager struct {
	store  Store
	signer *Signer
	cfg    Config
	now    func() time.Time
}

func NewManager(store Store, cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = 30 * 24 * time.Hour
	}
	return &Manager{store: store, signer: NewSigner(cfg.Secret), cfg: cfg, now: time.Now}
}

// Start loads the session named by the request cookie. Missing, forged or
// expired cookies produce an empty handle; a store failure is returned
// alongside a usable empty handle.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request) (*Handle, error) {
	h := &Handle{m: m, w: w, ctx: r.Context()}
	c, err := r.Cookie(CookieName)
	if err != nil {
		return h, nil
	}
	id, ok := m.signer.Unsign(c.Value)
	if !ok {
		return h, nil
	}
	s, err := m.store.Get(r.Context(), id)
	if err != nil {
		return h, fmt.Errorf("session: failed to load: %w", err)
	}
	h.s = s
	return h, nil
}

// Handle is the request-scoped view of a session. Every mutation is
// persisted immediately so the cookie goes out before the response body.
type Handle struct {
	m   *Manager
	w   http.ResponseWriter
	ctx context.Context
	s   *Session
}

func (h *Handle) Session() *Session { return h.s }

func (h *Handle) UserID() uint {
	if h.s == nil {
		return 0
	}
	return h.s.UserID
}

func (h *Handle) Authenticated() bool { return h.s.Authenticated() }

func (h *Handle) Theme() string {
	if h.s == nil || h.s.Theme == "" {
		return ThemeLight
	}
	return h.s.Theme
}

// Login binds userID under a fresh session ID, carrying over theme and
// pending flashes. remember makes the cookie outlive the browser session.
func (h *Handle) Login(userID uint, remember bool) error {
	ttl := h.m.cfg.TTL
	if remember {
		ttl = h.m.cfg.RememberTTL
	}
	next := &Session{
		ID:         GenerateID(),
		UserID:     userID,
		Persistent: remember,
		ExpiresAt:  h.m.now().Add(ttl),
	}
	if h.s != nil {
		next.Theme = h.s.Theme
		next.Flashes = h.s.Flashes
	}
	return h.replace(next)
}

// Logout drops the user binding. The theme survives in a new anonymous session.
func (h *Handle) Logout() error {
	if h.s == nil {
		return nil
	}
	if h.s.Theme == "" && len(h.s.Flashes) == 0 {
		if err := h.m.store.Delete(h.ctx, h.s.ID); err != nil {
			return fmt.Errorf("session: failed to delete: %w", err)
		}
		h.s = nil
		clearCookie(h.w, h.m.cfg.Cookie)
		return nil
	}
	return h.replace(&Session{
		ID:        GenerateID(),
		Theme:     h.s.Theme,
		Flashes:   h.s.Flashes,
		ExpiresAt: h.m.now().Add(h.m.cfg.TTL),
	})
}

// AddFlash queues a notice for the next rendered page.
func (h *Handle) AddFlash(category, message string) error {
	h.ensure()
	h.s.Flashes = append(h.s.Flashes, Flash{Category: category, Message: message})
	return h.save()
}

// Flashes returns and clears pending notices.
func (h *Handle) Flashes() ([]Flash, error) {
	if h.s == nil || len(h.s.Flashes) == 0 {
		return nil, nil
	}
	out := h.s.Flashes
	h.s.Flashes = nil
	return out, h.save()
}

// ToggleTheme flips between light and dark and returns the new theme.
func (h *Handle) ToggleTheme() (string, error) {
	h.ensure()
	if h.s.Theme == ThemeDark {
		h.s.Theme = ThemeLight
	} else {
		h.s.Theme = ThemeDark
	}
	return h.s.Theme, h.save()
}

func (h *Handle) ensure() {
	if h.s != nil {
		return
	}
	h.s = &Session{ExpiresAt: h.m.now().Add(h.m.cfg.TTL)}
}

func (h *Handle) save() error {
	if h.s.ID == "" {
		h.s.ID = GenerateID()
		if err := h.m.store.Create(h.ctx, *h.s); err != nil {
			return fmt.Errorf("session: failed to create: %w", err)
		}
		setCookie(h.w, h.m.signer.Sign(h.s.ID), h.s, h.m.cfg.Cookie)
		return nil
	}
	if err := h.m.store.Update(h.ctx, *h.s); err != nil {
		return fmt.Errorf("session: failed to update: %w", err)
	}
	return nil
}

func (h *Handle) replace(next *Session) error {
	if err := h.m.store.Create(h.ctx, *next); err != nil {
		return fmt.Errorf("session: failed to create: %w", err)
	}
	if h.s != nil && h.s.ID != "" {
		if err := h.m.store.Delete(h.ctx, h.s.ID); err != nil {
			return fmt.Errorf("session: failed to delete: %w", err)
		}
	}
	h.s = next
	setCookie(h.w, h.m.signer.Sign(next.ID), next, h.m.cfg.Cookie)
	return nil
}
