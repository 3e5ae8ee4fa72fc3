package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"seungpyo.lee/PersonalBlog/pkg/middleware"
)

// Route is one entry of the route table. Guards run before Handler.
type Route struct {
	Methods []string
	Path    string
	Guards  []gin.HandlerFunc
	Handler gin.HandlerFunc
}

var (
	get     = []string{http.MethodGet}
	post    = []string{http.MethodPost}
	getPost = []string{http.MethodGet, http.MethodPost}
)

// Routes lists every endpoint the blog serves.
func (h *Handler) Routes() []Route {
	login := middleware.RequireLogin("/login")
	anonymous := middleware.RedirectIfAuthenticated("/")

	return []Route{
		{Methods: get, Path: "/", Handler: h.Home},
		{Methods: get, Path: "/home", Handler: h.Home},
		{Methods: get, Path: "/about", Handler: h.About},
		{Methods: get, Path: "/toggle-theme", Handler: h.ToggleTheme},

		{Methods: getPost, Path: "/register", Guards: []gin.HandlerFunc{anonymous}, Handler: h.Register},
		{Methods: getPost, Path: "/login", Guards: []gin.HandlerFunc{anonymous}, Handler: h.Login},
		{Methods: get, Path: "/logout", Handler: h.Logout},
		{Methods: getPost, Path: "/account", Guards: []gin.HandlerFunc{login}, Handler: h.Account},

		{Methods: getPost, Path: "/post/new", Guards: []gin.HandlerFunc{login}, Handler: h.NewPost},
		{Methods: get, Path: "/post/:id", Handler: h.ViewPost},
		{Methods: getPost, Path: "/post/:id/update", Guards: []gin.HandlerFunc{login}, Handler: h.UpdatePost},
		{Methods: post, Path: "/post/:id/delete", Guards: []gin.HandlerFunc{login}, Handler: h.DeletePost},
		{Methods: get, Path: "/user/:username", Handler: h.UserPosts},

		{Methods: getPost, Path: "/reset_password", Guards: []gin.HandlerFunc{anonymous}, Handler: h.ResetRequest},
		{Methods: getPost, Path: "/reset_password/:token", Guards: []gin.HandlerFunc{anonymous}, Handler: h.ResetToken},

		{Methods: get, Path: "/health", Handler: h.Health},
		{Methods: get, Path: "/metrics", Handler: gin.WrapH(promhttp.Handler())},
	}
}

// Register installs routes on r.
func Register(r gin.IRoutes, routes []Route) {
	for _, rt := range routes {
		chain := append(append([]gin.HandlerFunc{}, rt.Guards...), rt.Handler)
		for _, method := range rt.Methods {
			r.Handle(method, rt.Path, chain...)
		}
	}
}
