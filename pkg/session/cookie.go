package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

const CookieName = "session"

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// Signer authenticates session IDs placed in cookies.
type Signer struct {
	key []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{key: []byte(secret)}
}

func (s *Signer) mac(id string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Sign returns "<id>.<mac>".
func (s *Signer) Sign(id string) string {
	return id + "." + s.mac(id)
}

// Unsign returns the ID when the value carries a valid MAC.
func (s *Signer) Unsign(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", false
	}
	id, sig := value[:i], value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(s.mac(id))) {
		return "", false
	}
	return id, true
}

// setCookie issues the signed cookie. Non-persistent sessions get a
// browser-session cookie without an expiry.
func setCookie(w http.ResponseWriter, value string, s *Session, opts CookieOptions) {
	opts = opts.normalize()
	c := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
	if s.Persistent {
		c.Expires = s.ExpiresAt
		c.MaxAge = int(time.Until(s.ExpiresAt).Seconds())
	}
	http.SetCookie(w, c)
}

func clearCookie(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
