package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/forms"
	"seungpyo.lee/PersonalBlog/internal/media"
)

const (
	accountUpdatedMsg  = "Your account has been updated!"
	pictureTooLargeMsg = "The picture is too large."
	pictureInvalidMsg  = "The picture could not be read as a JPG or PNG image."

	// multipart overhead allowed on top of the picture itself
	formOverheadBytes = 1 << 20
)

// Account shows the profile and applies username, email and picture changes.
func (h *Handler) Account(c *gin.Context) {
	user, err := h.requireUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	data := gin.H{
		"title":    "Account",
		"imageURL": h.deps.Accounts.PictureURL(user),
	}
	if !isPost(c) {
		data["form"] = forms.Values{"username": user.Username, "email": user.Email}
		h.render(c, http.StatusOK, "account.html", data)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes+formOverheadBytes)
	if err := c.Request.ParseMultipartForm(media.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			data["form"] = forms.Values{"username": user.Username, "email": user.Email}
			data["errors"] = forms.Errors{"picture": {pictureTooLargeMsg}}
			h.render(c, http.StatusRequestEntityTooLarge, "account.html", data)
			return
		}
		h.respondError(c, err)
		return
	}

	form := forms.UpdateAccount(user.Username, user.Email, h.deps.Auth.UsernameTaken, h.deps.Auth.EmailTaken)
	raw := postValues(c, form)
	var file *multipart.FileHeader
	if c.Request.MultipartForm != nil {
		file, err = c.FormFile("picture")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			h.respondError(c, err)
			return
		}
	}
	if file != nil {
		raw["picture"] = file.Filename
	}

	values, errs, err := form.Validate(c.Request.Context(), raw)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !errs.Valid() {
		data["form"], data["errors"] = form.Echo(values), errs
		h.render(c, http.StatusOK, "account.html", data)
		return
	}

	req := domain.UpdateAccountRequest{Username: values["username"], Email: values["email"]}
	if file != nil {
		upload, closeFn, err := openUpload(file)
		if err != nil {
			h.respondError(c, err)
			return
		}
		defer closeFn()
		req.Picture = upload
	}

	if _, err := h.deps.Accounts.UpdateAccount(c.Request.Context(), user.ID, req); err != nil {
		if errors.Is(err, domain.ErrUnsupportedImage) {
			data["form"] = form.Echo(values)
			data["errors"] = forms.Errors{"picture": {pictureInvalidMsg}}
			h.render(c, http.StatusOK, "account.html", data)
			return
		}
		h.respondError(c, err)
		return
	}
	h.flash(c, flashSuccess, accountUpdatedMsg)
	c.Redirect(http.StatusFound, "/account")
}

func openUpload(fh *multipart.FileHeader) (*domain.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &domain.Upload{Filename: fh.Filename, Size: fh.Size, Body: f}, func() { _ = f.Close() }, nil
}
