// Package flatfile implements the item repository on a single JSON document.
// It suits single-node deployments where running PostgreSQL is not worth it;
// the postgres backend is the production default.
//
// The whole collection lives in one file shaped as:
//
//	{"nextId": 4, "list": [{"id": 1, ...}, {"id": 3, ...}]}
//
// nextId only ever grows, so ids are never reused even after deletion. Every
// mutation rewrites the document atomically (temp file + rename) and the
// in-memory state is only updated after the flush succeeds, so a failed write
// leaves both the file and the process state at the previous version.
package flatfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	invdomain "github.com/ghuser/stockroom/services/inventory/domain"
	"github.com/ghuser/stockroom/services/inventory/domain/models"
	"github.com/ghuser/stockroom/services/inventory/domain/repositories"
)

type itemRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Photo       string `json:"photo,omitempty"`
}

type document struct {
	NextID int64        `json:"nextId"`
	List   []itemRecord `json:"list"`
}

// ItemRepository implements repositories.ItemRepository on a flat JSON file.
// All operations serialize on a single mutex; concurrent mutations of the
// same item apply in some sequential order and never corrupt the document.
type ItemRepository struct {
	mu   sync.Mutex
	path string
	doc  document
}

// NewItemRepository loads the document at path, creating an empty collection
// when the file does not exist yet. The parent directory is created if needed.
func NewItemRepository(path string) (*ItemRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %w", invdomain.ErrRepository, err)
	}

	r := &ItemRepository{path: path, doc: document{NextID: 1}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read data file: %w", invdomain.ErrRepository, err)
	}
	if err := json.Unmarshal(data, &r.doc); err != nil {
		return nil, fmt.Errorf("%w: parse data file %s: %w", invdomain.ErrRepository, path, err)
	}
	if r.doc.NextID < 1 {
		r.doc.NextID = 1
	}
	return r, nil
}

// Create assigns the next id and persists the new record.
func (r *ItemRepository) Create(_ context.Context, name models.ItemName, description, photoRef string) (*models.Item, error) {
	if name.String() == "" {
		return nil, invdomain.ErrInvalidItemName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := itemRecord{
		ID:          r.doc.NextID,
		Name:        name.String(),
		Description: description,
		Photo:       photoRef,
	}

	next := document{NextID: r.doc.NextID + 1, List: append(cloneList(r.doc.List), rec)}
	if err := r.flush(next); err != nil {
		return nil, err
	}
	r.doc = next
	return recordToItem(rec), nil
}

// Get retrieves an Item by ID. Returns ErrItemNotFound if no record exists.
func (r *ItemRepository) Get(_ context.Context, id int64) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.doc.List {
		if rec.ID == id {
			return recordToItem(rec), nil
		}
	}
	return nil, invdomain.ErrItemNotFound
}

// List returns all items in insertion order.
func (r *ItemRepository) List(_ context.Context) ([]*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]*models.Item, len(r.doc.List))
	for i, rec := range r.doc.List {
		items[i] = recordToItem(rec)
	}
	return items, nil
}

// UpdateMetadata applies a partial update; nil patch fields keep the stored value.
func (r *ItemRepository) UpdateMetadata(_ context.Context, id int64, patch repositories.MetadataPatch) (*models.Item, error) {
	if patch.Name != nil {
		if _, err := models.NewItemName(*patch.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidItemName, err)
		}
	}

	return r.mutate(id, func(rec *itemRecord) {
		if patch.Name != nil {
			rec.Name = *patch.Name
		}
		if patch.Description != nil {
			rec.Description = *patch.Description
		}
	})
}

// SetPhotoRef records the item's photo reference. An empty ref clears it.
func (r *ItemRepository) SetPhotoRef(_ context.Context, id int64, photoRef string) (*models.Item, error) {
	return r.mutate(id, func(rec *itemRecord) {
		rec.Photo = photoRef
	})
}

// Delete removes the item and reports whether a record existed. nextId is
// untouched so the deleted id is never handed out again.
func (r *ItemRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, rec := range r.doc.List {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	list := cloneList(r.doc.List)
	list = append(list[:idx], list[idx+1:]...)
	next := document{NextID: r.doc.NextID, List: list}
	if err := r.flush(next); err != nil {
		return false, err
	}
	r.doc = next
	return true, nil
}

// mutate locates the record, applies fn to a copy, flushes, and commits.
func (r *ItemRepository) mutate(id int64, fn func(*itemRecord)) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := cloneList(r.doc.List)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		fn(&list[i])
		next := document{NextID: r.doc.NextID, List: list}
		if err := r.flush(next); err != nil {
			return nil, err
		}
		r.doc = next
		return recordToItem(list[i]), nil
	}
	return nil, invdomain.ErrItemNotFound
}

// flush writes doc to a temp file in the same directory and renames it over
// the data file, so readers never observe a torn document.
func (r *ItemRepository) flush(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal document: %w", invdomain.ErrRepository, err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write temp file: %w", invdomain.ErrRepository, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: replace data file: %w", invdomain.ErrRepository, err)
	}
	return nil
}

func cloneList(list []itemRecord) []itemRecord {
	out := make([]itemRecord, len(list))
	copy(out, list)
	return out
}

func recordToItem(rec itemRecord) *models.Item {
	return &models.Item{
		ID:          rec.ID,
		Name:        models.ItemName(rec.Name),
		Description: rec.Description,
		PhotoRef:    rec.Photo,
	}
}
