package util

import (
	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/pkg/session"
)

const sessionKey = "session"

// SetSession stores the request's session handle on the gin context.
func SetSession(c *gin.Context, h *session.Handle) {
	c.Set(sessionKey, h)
}

// GetSession returns the handle installed by the session middleware.
func GetSession(c *gin.Context) (*session.Handle, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	h, ok := v.(*session.Handle)
	return h, ok && h != nil
}

// GetUserID extracts the authenticated user id from the session.
func GetUserID(c *gin.Context) (uint, bool) {
	h, ok := GetSession(c)
	if !ok || !h.Authenticated() {
		return 0, false
	}
	return h.UserID(), true
}
