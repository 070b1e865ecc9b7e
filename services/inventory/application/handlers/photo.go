package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ghuser/stockroom/pkg/errhttp"
	"github.com/ghuser/stockroom/pkg/httpx"
	appsvcs "github.com/ghuser/stockroom/services/inventory/application/services"
)

// GetPhotoHandler handles GET /inventory/{id}/photo requests.
type GetPhotoHandler struct {
	svc *appsvcs.Services
}

// NewGetPhotoHandler returns a GetPhotoHandler backed by the given services.
func NewGetPhotoHandler(svc *appsvcs.Services) *GetPhotoHandler {
	return &GetPhotoHandler{svc: svc}
}

// Execute streams the item's photo bytes. Uploads are photos, so the
// Content-Type is fixed to image/jpeg.
func (h *GetPhotoHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	rc, err := h.svc.Item.OpenPhoto(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	defer rc.Close() //nolint:errcheck

	w.Header().Set("Content-Type", "image/jpeg")
	if _, err := io.Copy(w, rc); err != nil {
		// Headers already sent; nothing left to do but log at the access log level.
		return
	}
}

// ReplacePhotoHandler handles PUT /inventory/{id}/photo requests.
type ReplacePhotoHandler struct {
	svc      *appsvcs.Services
	photoURL PhotoURLFunc
}

// NewReplacePhotoHandler returns a ReplacePhotoHandler backed by the given services.
func NewReplacePhotoHandler(svc *appsvcs.Services, photoURL PhotoURLFunc) *ReplacePhotoHandler {
	return &ReplacePhotoHandler{svc: svc, photoURL: photoURL}
}

// Execute replaces the item's photo with the uploaded file, or clears it when
// no file is supplied.
func (h *ReplacePhotoHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed multipart form")
		return
	}

	var upload *appsvcs.Upload
	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close() //nolint:errcheck
		upload = &appsvcs.Upload{File: file, Filename: header.Filename}
	case errors.Is(err, http.ErrMissingFile):
		// no file means "clear the photo"
	default:
		httpx.JSONError(w, http.StatusBadRequest, "malformed photo upload")
		return
	}

	item, err := h.svc.Item.ReplacePhoto(r.Context(), id, upload)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewItemView(item, h.photoURL))
}
