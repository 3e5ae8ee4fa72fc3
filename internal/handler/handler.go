// Package handler maps the blog's routes onto the domain services and
// renders the embedded templates.
package handler

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/forms"
	"seungpyo.lee/PersonalBlog/internal/metrics"
	"seungpyo.lee/PersonalBlog/internal/web"
	"seungpyo.lee/PersonalBlog/pkg/middleware"
	"seungpyo.lee/PersonalBlog/pkg/session"
	"seungpyo.lee/PersonalBlog/pkg/util"
)

const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashDanger  = "danger"

	currentUserKey = "currentUser"
)

// Deps is everything the handlers need. It is built once at startup.
type Deps struct {
	Auth     domain.AuthService
	Accounts domain.AccountService
	Posts    domain.PostService
	Sessions *session.Manager
	Log      zerolog.Logger
	// PictureDir is served under /static/profile_pics when set.
	PictureDir string
}

type Handler struct {
	deps Deps
	log  zerolog.Logger
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps, log: deps.Log}
}

// NewRouter assembles the engine: middleware, templates, static files and
// the route table.
func NewRouter(deps Deps) (*gin.Engine, error) {
	h := New(deps)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(deps.Log),
		middleware.RequestMetrics(metrics.HTTPRequestsTotal, metrics.HTTPRequestDuration),
		middleware.SessionMiddleware(deps.Sessions, deps.Log),
	)

	tmpl, err := web.Templates(template.FuncMap{
		"pictureURL": func(name string) string {
			return deps.Accounts.PictureURL(&domain.User{ImageFile: name})
		},
	})
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/assets", web.Static())
	if deps.PictureDir != "" {
		r.Static("/static/profile_pics", deps.PictureDir)
	}

	Register(r, h.Routes())
	r.NoRoute(h.NotFound)
	return r, nil
}

// render fills in the data every page layout uses and writes the template.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["form"]; !ok {
		data["form"] = forms.Values{}
	}
	if _, ok := data["errors"]; !ok {
		data["errors"] = forms.Errors{}
	}
	data["theme"] = session.ThemeLight
	data["currentPath"] = c.Request.URL.RequestURI()

	if sess, ok := util.GetSession(c); ok {
		data["theme"] = sess.Theme()
		flashes, err := sess.Flashes()
		if err != nil {
			h.log.Warn().Err(err).Msg("failed to consume flashes")
		}
		data["flashes"] = flashes
	}
	if user := h.currentUser(c); user != nil {
		data["currentUser"] = user
	}
	c.HTML(status, name, data)
}

type sessionUser struct {
	user *domain.User
	err  error
}

// loadUser resolves the session's account once per request. A session
// naming an account that no longer exists is logged out.
func (h *Handler) loadUser(c *gin.Context) (*domain.User, error) {
	if v, ok := c.Get(currentUserKey); ok {
		su, _ := v.(sessionUser)
		return su.user, su.err
	}
	var su sessionUser
	if id, ok := util.GetUserID(c); ok {
		su.user, su.err = h.deps.Accounts.GetUser(c.Request.Context(), id)
		switch {
		case errors.Is(su.err, domain.ErrNotFound):
			h.log.Warn().Uint("user_id", id).Msg("session user no longer exists")
			su.user, su.err = nil, nil
			if sess, ok := util.GetSession(c); ok {
				if err := sess.Logout(); err != nil {
					h.log.Warn().Err(err).Msg("failed to drop stale session")
				}
			}
		case su.err != nil:
			h.log.Warn().Err(su.err).Uint("user_id", id).Msg("failed to load session user")
			su.user = nil
		}
	}
	c.Set(currentUserKey, su)
	return su.user, su.err
}

// currentUser is the logged-in account for display, nil when anonymous or
// when loading it failed.
func (h *Handler) currentUser(c *gin.Context) *domain.User {
	user, _ := h.loadUser(c)
	return user
}

// requireUser returns the logged-in account, or ErrUnauthorized when the
// session does not name one. A failed lookup is returned as is so it is not
// mistaken for a logged-out visitor.
func (h *Handler) requireUser(c *gin.Context) (*domain.User, error) {
	user, err := h.loadUser(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func (h *Handler) flash(c *gin.Context, category, message string) {
	sess, ok := util.GetSession(c)
	if !ok {
		return
	}
	if err := sess.AddFlash(category, message); err != nil {
		h.log.Warn().Err(err).Msg("failed to store flash")
	}
}

// respondError maps domain errors onto responses. Anything unrecognized is
// logged and shown as a 500 page.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.NotFound(c)
	case errors.Is(err, domain.ErrForbidden):
		h.render(c, http.StatusForbidden, "error.html", gin.H{
			"title":   "Forbidden",
			"message": "You don't have permission to do that (403)",
			"detail":  "Please check your account and try again.",
		})
	case errors.Is(err, domain.ErrUnauthorized):
		h.flash(c, flashInfo, middleware.LoginMessage)
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	default:
		_ = c.Error(err)
		h.log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		h.render(c, http.StatusInternalServerError, "error.html", gin.H{
			"title":   "Error",
			"message": "Something went wrong (500)",
			"detail":  "We're experiencing some trouble on our end. Please try again in the near future.",
		})
	}
}

func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error.html", gin.H{
		"title":   "Not Found",
		"message": "Oops. Page Not Found (404)",
		"detail":  "That page does not exist. Please try a different location.",
	})
}

// pageParam reads ?page=, treating anything missing, malformed or below one as 1.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrNotFound
	}
	return uint(id), nil
}

// postValues collects the submitted values for the form's fields.
func postValues(c *gin.Context, form forms.Form) forms.Values {
	raw := make(forms.Values, len(form.Fields))
	for _, name := range form.Names() {
		raw[name] = c.PostForm(name)
	}
	return raw
}

func isPost(c *gin.Context) bool {
	return c.Request.Method == http.MethodPost
}
