package handlers

import (
	"errors"
	"net/http"

	"github.com/ghuser/stockroom/pkg/errhttp"
	"github.com/ghuser/stockroom/pkg/httpx"
	appsvcs "github.com/ghuser/stockroom/services/inventory/application/services"
)

// RegisterHandler handles POST /register requests.
type RegisterHandler struct {
	svc      *appsvcs.Services
	photoURL PhotoURLFunc
}

// NewRegisterHandler returns a RegisterHandler backed by the given services.
func NewRegisterHandler(svc *appsvcs.Services, photoURL PhotoURLFunc) *RegisterHandler {
	return &RegisterHandler{svc: svc, photoURL: photoURL}
}

// Execute registers a new inventory item from a multipart form with fields
// inventory_name (required), description, and photo (optional file).
func (h *RegisterHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed multipart form")
		return
	}

	name := r.FormValue("inventory_name")
	description := r.FormValue("description")

	var upload *appsvcs.Upload
	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close() //nolint:errcheck
		upload = &appsvcs.Upload{File: file, Filename: header.Filename}
	case errors.Is(err, http.ErrMissingFile):
		// photo is optional
	default:
		httpx.JSONError(w, http.StatusBadRequest, "malformed photo upload")
		return
	}

	item, err := h.svc.Item.Register(r.Context(), name, description, upload)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, NewItemView(item, h.photoURL))
}
