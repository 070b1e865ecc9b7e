package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/stockroom/pkg/errhttp"
	"github.com/ghuser/stockroom/pkg/httpx"
	appsvcs "github.com/ghuser/stockroom/services/inventory/application/services"
)

// SearchHandler handles POST /search requests.
type SearchHandler struct {
	svc *appsvcs.Services
}

// NewSearchHandler returns a SearchHandler backed by the given services.
func NewSearchHandler(svc *appsvcs.Services) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Execute looks up an item by the form field id. When has_photo is "on",
// the description in the response is suffixed with a photo presence hint.
// The response never carries a photo field.
func (h *SearchHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed form")
		return
	}

	rawID := r.PostFormValue("id")
	if rawID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "id is required")
		return
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	includeHint := r.PostFormValue("has_photo") == "on"

	item, err := h.svc.Item.Search(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewSearchItemView(item, includeHint))
}
