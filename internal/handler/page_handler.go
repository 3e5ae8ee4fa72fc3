package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/pkg/middleware"
	"seungpyo.lee/PersonalBlog/pkg/util"
)

// Home lists every post, newest first.
func (h *Handler) Home(c *gin.Context) {
	page, err := h.deps.Posts.ListPosts(c.Request.Context(), pageParam(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, "home.html", gin.H{
		"posts":    page,
		"pageBase": "/?page=",
	})
}

func (h *Handler) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about.html", gin.H{"title": "About"})
}

// ToggleTheme flips the session theme and returns to current_page.
func (h *Handler) ToggleTheme(c *gin.Context) {
	if sess, ok := util.GetSession(c); ok {
		if _, err := sess.ToggleTheme(); err != nil {
			h.respondError(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, middleware.SafeRedirect(c.Query("current_page"), "/"))
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
