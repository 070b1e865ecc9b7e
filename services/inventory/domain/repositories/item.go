package repositories

import (
	"context"

	"github.com/ghuser/stockroom/services/inventory/domain/models"
)

// MetadataPatch carries a partial metadata update. Nil fields retain the
// item's previous value.
type MetadataPatch struct {
	Name        *string
	Description *string
}

// ItemRepository is the persistence contract for the Item aggregate,
// implemented interchangeably by the postgres and flatfile backends.
// The domain layer owns this interface; infrastructure implements it.
//
// Absence is reported as domain.ErrItemNotFound; I/O and constraint failures
// wrap domain.ErrRepository. Implementations must never reuse an id, even
// after deletion.
type ItemRepository interface {
	// Create assigns the next id, persists the record, and returns the full Item.
	// Re-checks that name is non-empty as a last line of defense
	// (domain.ErrInvalidItemName).
	Create(ctx context.Context, name models.ItemName, description, photoRef string) (*models.Item, error)

	Get(ctx context.Context, id int64) (*models.Item, error)

	// List returns all items. The flatfile backend returns insertion order;
	// the postgres backend orders by id.
	List(ctx context.Context) ([]*models.Item, error)

	// UpdateMetadata applies a partial update; fields not supplied retain
	// their previous value.
	UpdateMetadata(ctx context.Context, id int64, patch MetadataPatch) (*models.Item, error)

	// SetPhotoRef records the item's photo reference. An empty ref clears it.
	SetPhotoRef(ctx context.Context, id int64, photoRef string) (*models.Item, error)

	// Delete removes the item and reports whether a record existed.
	Delete(ctx context.Context, id int64) (bool, error)
}
