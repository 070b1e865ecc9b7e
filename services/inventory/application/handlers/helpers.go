package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	invdomain "github.com/ghuser/stockroom/services/inventory/domain"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger uploads spill to temp files. The total body size is already capped
// by the router's body limit middleware.
const maxMultipartMemory = 10 << 20

// itemID extracts the {id} route parameter. A non-numeric id cannot match
// any item, so it surfaces as ErrItemNotFound rather than a parse error.
func itemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, invdomain.ErrItemNotFound
	}
	return id, nil
}
