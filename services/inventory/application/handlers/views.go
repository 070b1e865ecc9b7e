package handlers

import (
	"github.com/ghuser/stockroom/services/inventory/domain/models"
)

// Photo hint markers appended to descriptions on the search path.
const (
	photoHintPrefix = "[Photo: "
	photoHintSuffix = "]"
	noPhotoHint     = "[No photo available]"
)

// PhotoURLFunc resolves an item id to the URL its photo is served from.
// Supplied by the routing layer so the view stays a pure transform.
type PhotoURLFunc func(id int64) string

// ItemView is the client-facing representation of an Item. Photo is a
// resolvable URL, or null when the item has no photo.
type ItemView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"inventory_name"`
	Description string  `json:"description"`
	Photo       *string `json:"photo"`
}

// SearchItemView is the item view for the search path. It carries no photo
// field at all; the photo's presence is only ever surfaced through the
// optional description hint.
type SearchItemView struct {
	ID          int64  `json:"id"`
	Name        string `json:"inventory_name"`
	Description string `json:"description"`
}

// NewItemView maps a stored item to its client view, replacing the stored
// blob name with a URL built by photoURL.
func NewItemView(item *models.Item, photoURL PhotoURLFunc) ItemView {
	v := ItemView{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
	}
	if item.HasPhoto() {
		url := photoURL(item.ID)
		v.Photo = &url
	}
	return v
}

// NewItemViews maps a slice of items.
func NewItemViews(items []*models.Item, photoURL PhotoURLFunc) []ItemView {
	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = NewItemView(item, photoURL)
	}
	return views
}

// NewSearchItemView maps a stored item to its search view. When includeHint
// is set, a marker describing the photo's presence is appended to the
// description; the stored description is never mutated.
func NewSearchItemView(item *models.Item, includeHint bool) SearchItemView {
	v := SearchItemView{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
	}
	if includeHint {
		hint := noPhotoHint
		if item.HasPhoto() {
			hint = photoHintPrefix + item.PhotoRef + photoHintSuffix
		}
		if v.Description != "" {
			v.Description += " "
		}
		v.Description += hint
	}
	return v
}
