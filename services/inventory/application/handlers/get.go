package handlers

import (
	"net/http"

	"github.com/ghuser/stockroom/pkg/errhttp"
	"github.com/ghuser/stockroom/pkg/httpx"
	appsvcs "github.com/ghuser/stockroom/services/inventory/application/services"
)

// GetItemHandler handles GET /inventory/{id} requests.
type GetItemHandler struct {
	svc      *appsvcs.Services
	photoURL PhotoURLFunc
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services, photoURL PhotoURLFunc) *GetItemHandler {
	return &GetItemHandler{svc: svc, photoURL: photoURL}
}

// Execute returns a single item by id.
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	item, err := h.svc.Item.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewItemView(item, h.photoURL))
}
