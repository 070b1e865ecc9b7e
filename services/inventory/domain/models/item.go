package models

// Item is the core aggregate for the inventory bounded context.
// IDs are assigned by the repository (monotonic, never reused, even after
// deletion) and are immutable once created.
type Item struct {
	ID          int64
	Name        ItemName
	Description string
	// PhotoRef is the opaque blob name of the item's photo in the blob store,
	// or empty when the item has no photo. Only the lifecycle manager may
	// create or break this linkage.
	PhotoRef string
}

// HasPhoto reports whether the item references a photo blob.
func (i *Item) HasPhoto() bool {
	return i.PhotoRef != ""
}

// Clone returns a copy of the item. Repositories return clones so callers
// can never mutate stored state through a shared pointer.
func (i *Item) Clone() *Item {
	c := *i
	return &c
}
