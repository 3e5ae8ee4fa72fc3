package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/pkg/util"
)

const LoginMessage = "Please log in to access this page."

// RequireLogin redirects anonymous visitors to loginPath, remembering where
// they were going in the next parameter.
func RequireLogin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := util.GetUserID(c); ok {
			c.Next()
			return
		}
		if h, ok := util.GetSession(c); ok {
			_ = h.AddFlash("info", LoginMessage)
		}
		target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// RedirectIfAuthenticated sends logged-in users to target. Used on the
// register, login and password reset pages.
func RedirectIfAuthenticated(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := util.GetUserID(c); ok {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SafeRedirect returns next when it is a local absolute path, else fallback.
func SafeRedirect(next, fallback string) string {
	if next == "" || next[0] != '/' || len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}
