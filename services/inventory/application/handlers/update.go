package handlers

import (
	"net/http"

	"github.com/ghuser/stockroom/pkg/errhttp"
	"github.com/ghuser/stockroom/pkg/httpx"
	pkgvalidator "github.com/ghuser/stockroom/pkg/validator"
	appsvcs "github.com/ghuser/stockroom/services/inventory/application/services"
	"github.com/ghuser/stockroom/services/inventory/domain/repositories"
)

// UpdateItemRequest is the request body for PUT /inventory/{id}.
// Omitted fields retain the item's previous value.
type UpdateItemRequest struct {
	Name        *string `json:"inventory_name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"    validate:"omitempty,max=4096"`
}

// UpdateItemHandler handles PUT /inventory/{id} requests.
type UpdateItemHandler struct {
	svc      *appsvcs.Services
	photoURL PhotoURLFunc
}

// NewUpdateItemHandler returns an UpdateItemHandler backed by the given services.
func NewUpdateItemHandler(svc *appsvcs.Services, photoURL PhotoURLFunc) *UpdateItemHandler {
	return &UpdateItemHandler{svc: svc, photoURL: photoURL}
}

// Execute applies a partial metadata update to an item.
func (h *UpdateItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[UpdateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.UpdateMetadata(r.Context(), id, repositories.MetadataPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewItemView(item, h.photoURL))
}
