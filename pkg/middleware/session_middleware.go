package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"seungpyo.lee/PersonalBlog/pkg/session"
	"seungpyo.lee/PersonalBlog/pkg/util"
)

// SessionMiddleware attaches the cookie-bound session to every request.
func SessionMiddleware(manager *session.Manager, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		h, err := manager.Start(c.Writer, c.Request)
		if err != nil {
			log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("failed to load session")
		}
		util.SetSession(c, h)
		c.Next()
	}
}
