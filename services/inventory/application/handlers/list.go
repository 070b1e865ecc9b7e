package handlers

import (
	"net/http"

	"github.com/ghuser/stockroom/pkg/errhttp"
	"github.com/ghuser/stockroom/pkg/httpx"
	appsvcs "github.com/ghuser/stockroom/services/inventory/application/services"
)

// ListItemsHandler handles GET /inventory requests.
type ListItemsHandler struct {
	svc      *appsvcs.Services
	photoURL PhotoURLFunc
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services, photoURL PhotoURLFunc) *ListItemsHandler {
	return &ListItemsHandler{svc: svc, photoURL: photoURL}
}

// Execute returns all registered items.
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Item.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewItemViews(items, h.photoURL))
}
