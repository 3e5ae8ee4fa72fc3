package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/forms"
	"seungpyo.lee/PersonalBlog/internal/service"
)

const (
	postCreatedMsg = "Your post has been created!"
	postUpdatedMsg = "Your post has been updated!"
	postDeletedMsg = "Your post has been deleted!"

	descriptionLength = 160
)

func (h *Handler) NewPost(c *gin.Context) {
	user, err := h.requireUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	data := gin.H{"title": "New Post", "legend": "New Post"}
	if !isPost(c) {
		h.render(c, http.StatusOK, "create_post.html", data)
		return
	}

	form := forms.Post()
	values, errs, err := form.Validate(c.Request.Context(), postValues(c, form))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !errs.Valid() {
		data["form"], data["errors"] = form.Echo(values), errs
		h.render(c, http.StatusOK, "create_post.html", data)
		return
	}

	if _, err := h.deps.Posts.CreatePost(c.Request.Context(), domain.PostRequest{
		Title:   values["title"],
		Content: values["content"],
	}, user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	h.flash(c, flashSuccess, postCreatedMsg)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) ViewPost(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	post, err := h.deps.Posts.GetPost(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, "post.html", gin.H{
		"title":       post.Title,
		"description": service.Excerpt(post.Content, descriptionLength),
		"post":        post,
	})
}

// UpdatePost edits a post. Ownership is checked on GET as well as POST.
func (h *Handler) UpdatePost(c *gin.Context) {
	user, err := h.requireUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	id, err := idParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	post, err := h.deps.Posts.GetOwnedPost(c.Request.Context(), id, user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data := gin.H{"title": "Update Post", "legend": "Update Post"}
	if !isPost(c) {
		data["form"] = forms.Values{"title": post.Title, "content": post.Content}
		h.render(c, http.StatusOK, "create_post.html", data)
		return
	}

	form := forms.Post()
	values, errs, err := form.Validate(c.Request.Context(), postValues(c, form))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !errs.Valid() {
		data["form"], data["errors"] = form.Echo(values), errs
		h.render(c, http.StatusOK, "create_post.html", data)
		return
	}

	if _, err := h.deps.Posts.UpdatePost(c.Request.Context(), id, domain.PostRequest{
		Title:   values["title"],
		Content: values["content"],
	}, user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	h.flash(c, flashSuccess, postUpdatedMsg)
	c.Redirect(http.StatusFound, "/post/"+strconv.FormatUint(uint64(id), 10))
}

func (h *Handler) DeletePost(c *gin.Context) {
	user, err := h.requireUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	id, err := idParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.deps.Posts.DeletePost(c.Request.Context(), id, user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	h.flash(c, flashSuccess, postDeletedMsg)
	c.Redirect(http.StatusFound, "/")
}

// UserPosts lists one author's posts, newest first.
func (h *Handler) UserPosts(c *gin.Context) {
	username := c.Param("username")
	user, page, err := h.deps.Posts.ListUserPosts(c.Request.Context(), username, pageParam(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, "user_posts.html", gin.H{
		"title":    "Posts by " + user.Username,
		"user":     user,
		"posts":    page,
		"pageBase": "/user/" + url.PathEscape(user.Username) + "?page=",
	})
}
