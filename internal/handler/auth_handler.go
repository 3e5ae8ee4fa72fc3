package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/forms"
	"seungpyo.lee/PersonalBlog/pkg/middleware"
	"seungpyo.lee/PersonalBlog/pkg/util"
)

const (
	accountCreatedMsg = "Your account has been created! You are now able to log in"
	loginFailedMsg    = "Login unsuccessful! Please check email and password."
	resetSentMsg      = "An email has been sent with instructions to reset your password."
	invalidTokenMsg   = "That is an invalid or expired token"
	passwordResetMsg  = "Your password has been updated! You are now able to log in"
)

func (h *Handler) Register(c *gin.Context) {
	data := gin.H{"title": "Register"}
	if !isPost(c) {
		h.render(c, http.StatusOK, "register.html", data)
		return
	}

	form := forms.Registration(h.deps.Auth.UsernameTaken, h.deps.Auth.EmailTaken)
	values, errs, err := form.Validate(c.Request.Context(), postValues(c, form))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !errs.Valid() {
		data["form"], data["errors"] = form.Echo(values), errs
		h.render(c, http.StatusOK, "register.html", data)
		return
	}

	if _, err := h.deps.Auth.Register(c.Request.Context(), domain.RegisterRequest{
		Username: values["username"],
		Email:    values["email"],
		Password: values["password"],
	}); err != nil {
		h.respondError(c, err)
		return
	}
	h.flash(c, flashSuccess, accountCreatedMsg)
	c.Redirect(http.StatusFound, "/login")
}

// Login binds the session to the account and follows ?next= when it is a
// local path.
func (h *Handler) Login(c *gin.Context) {
	data := gin.H{"title": "Login"}
	if !isPost(c) {
		h.render(c, http.StatusOK, "login.html", data)
		return
	}

	form := forms.Login()
	values, errs, err := form.Validate(c.Request.Context(), postValues(c, form))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !errs.Valid() {
		data["form"], data["errors"] = form.Echo(values), errs
		h.render(c, http.StatusOK, "login.html", data)
		return
	}

	remember := forms.Checked(values["remember"])
	user, err := h.deps.Auth.Login(c.Request.Context(), domain.LoginRequest{
		Email:    values["email"],
		Password: values["password"],
		Remember: remember,
	})
	if errors.Is(err, domain.ErrInvalidCredentials) {
		h.flash(c, flashDanger, loginFailedMsg)
		data["form"] = form.Echo(values)
		h.render(c, http.StatusOK, "login.html", data)
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	sess, ok := util.GetSession(c)
	if !ok {
		h.respondError(c, errors.New("session middleware not installed"))
		return
	}
	if err := sess.Login(user.ID, remember); err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, middleware.SafeRedirect(c.Query("next"), "/"))
}

func (h *Handler) Logout(c *gin.Context) {
	if sess, ok := util.GetSession(c); ok {
		if err := sess.Logout(); err != nil {
			h.respondError(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, "/")
}

// ResetRequest emails a reset link to a registered address.
func (h *Handler) ResetRequest(c *gin.Context) {
	data := gin.H{"title": "Reset Password"}
	if !isPost(c) {
		h.render(c, http.StatusOK, "reset_request.html", data)
		return
	}

	form := forms.RequestReset(h.deps.Auth.EmailTaken)
	values, errs, err := form.Validate(c.Request.Context(), postValues(c, form))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !errs.Valid() {
		data["form"], data["errors"] = form.Echo(values), errs
		h.render(c, http.StatusOK, "reset_request.html", data)
		return
	}

	if err := h.deps.Accounts.RequestReset(c.Request.Context(), values["email"]); err != nil {
		h.respondError(c, err)
		return
	}
	h.flash(c, flashInfo, resetSentMsg)
	c.Redirect(http.StatusFound, "/login")
}

// ResetToken redeems a reset link. Invalid or expired tokens send the
// visitor back to request a new one.
func (h *Handler) ResetToken(c *gin.Context) {
	token := c.Param("token")
	if _, err := h.deps.Accounts.VerifyResetToken(c.Request.Context(), token); err != nil {
		h.tokenError(c, err)
		return
	}

	data := gin.H{"title": "Reset Password"}
	if !isPost(c) {
		h.render(c, http.StatusOK, "reset_token.html", data)
		return
	}

	form := forms.ResetPassword()
	values, errs, err := form.Validate(c.Request.Context(), postValues(c, form))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !errs.Valid() {
		data["errors"] = errs
		h.render(c, http.StatusOK, "reset_token.html", data)
		return
	}

	if _, err := h.deps.Accounts.ResetPassword(c.Request.Context(), token, values["password"]); err != nil {
		h.tokenError(c, err)
		return
	}
	h.flash(c, flashSuccess, passwordResetMsg)
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) tokenError(c *gin.Context, err error) {
	if !errors.Is(err, domain.ErrInvalidToken) {
		h.respondError(c, err)
		return
	}
	h.flash(c, flashWarning, invalidTokenMsg)
	c.Redirect(http.StatusFound, "/reset_password")
}
