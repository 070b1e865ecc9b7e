package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/stockroom/pkg/cache"
	"github.com/ghuser/stockroom/pkg/logger"
	invdomain "github.com/ghuser/stockroom/services/inventory/domain"
	"github.com/ghuser/stockroom/services/inventory/domain/models"
	"github.com/ghuser/stockroom/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/stockroom/services/inventory/domain/services"
	"github.com/ghuser/stockroom/services/inventory/infrastructure/blobstore"
)

// Upload is a received photo upload handed to the lifecycle manager.
// Filename is the client-supplied original name, used only to preserve the
// extension on the minted blob name.
type Upload struct {
	File     io.Reader
	Filename string
}

// ItemService orchestrates the repository and the blob store so an item's
// photo reference and the actual photo blob never diverge. It is the only
// component that creates or breaks the linkage between the two.
//
// No transaction spans both stores. Multi-step operations follow a fixed
// ordering with best-effort compensation when a later step fails; a crash
// between steps can leave an orphaned blob (harmless, swept by the worker)
// but never an item pointing at a blob that was just deleted.
//
// Reads tolerate a dangling photo reference by reporting the item as having
// no photo instead of failing, so one missing file never blocks listing.
//
// Event publishing is handled by the repository layer (outbox pattern).
// Reads are served from Redis cache when available.
type ItemService struct {
	repo  repositories.ItemRepository
	blobs blobstore.Store
	cache ItemCache
	log   logger.Logger
}

// ItemCache is the cached-view contract used by ItemService. Satisfied by
// pkg/cache.ItemCache; a miss is reported as redis.Nil.
type ItemCache interface {
	Get(ctx context.Context, itemID int64) (*pkgcache.CachedItem, error)
	Set(ctx context.Context, item *pkgcache.CachedItem) error
	Delete(ctx context.Context, itemID int64) error
}

// NewItemService returns an ItemService wired with the given repository,
// blob store, and cache. The cache may be nil to disable caching.
func NewItemService(repo repositories.ItemRepository, blobs blobstore.Store, itemCache ItemCache, log logger.Logger) *ItemService {
	return &ItemService{repo: repo, blobs: blobs, cache: itemCache, log: log}
}

// Register validates and persists a new Item, storing the photo upload first
// when one is provided.
//
// The name is validated before the upload is touched, so an invalid request
// never leaves a blob behind. If the repository insert fails after the blob
// was stored, the orphaned blob is deleted before the error propagates.
func (s *ItemService) Register(ctx context.Context, name, description string, upload *Upload) (*models.Item, error) {
	itemName, err := models.NewItemName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidItemName, err)
	}
	if err := domainsvcs.ValidateName(itemName); err != nil {
		return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidItemName, err)
	}

	photoRef := ""
	if upload != nil {
		photoRef, err = s.blobs.Put(ctx, upload.File, upload.Filename)
		if err != nil {
			return nil, fmt.Errorf("store photo: %w", err)
		}
	}

	item, err := s.repo.Create(ctx, itemName, description, photoRef)
	if err != nil {
		if photoRef != "" {
			if cleanupErr := s.blobs.Delete(ctx, photoRef); cleanupErr != nil {
				s.log.ErrorContext(ctx, "failed to clean up orphaned blob after create failure",
					"blob", photoRef, "error", cleanupErr)
			}
		}
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.refreshCache(ctx, item)
	return item, nil
}

// Get retrieves an Item, checking the Redis cache before the repository.
//
// Reads never write the cache. A read-path write could land after a
// concurrent Delete's invalidation and pin the removed item in Redis; the
// cache is maintained by the mutation paths (and the worker) instead, where
// ordering against invalidation is guaranteed.
//
// A dangling photo reference is masked as "no photo" on the returned item.
func (s *ItemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return s.maskDangling(ctx, &models.Item{
				ID:          cached.ID,
				Name:        models.ItemName(cached.Name),
				Description: cached.Description,
				PhotoRef:    cached.Photo,
			}), nil
		} else if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "item cache read failed, falling back to repository", "error", err)
		}
	}

	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return s.maskDangling(ctx, item), nil
}

// List returns all items. Dangling photo references are masked per item so
// one missing blob never blocks the listing.
func (s *ItemService) List(ctx context.Context) ([]*models.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	for i, item := range items {
		items[i] = s.maskDangling(ctx, item)
	}
	return items, nil
}

// UpdateMetadata applies a partial name/description update. Blobs are never
// touched here. A renamed item passes the same name rules as registration.
func (s *ItemService) UpdateMetadata(ctx context.Context, id int64, patch repositories.MetadataPatch) (*models.Item, error) {
	if patch.Name != nil {
		itemName, err := models.NewItemName(*patch.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidItemName, err)
		}
		if err := domainsvcs.ValidateName(itemName); err != nil {
			return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidItemName, err)
		}
	}

	item, err := s.repo.UpdateMetadata(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.refreshCache(ctx, item)
	return s.maskDangling(ctx, item), nil
}

// ReplacePhoto swaps the item's photo for the given upload, or clears it when
// upload is nil.
//
// Ordering: the new blob is stored and its reference durably recorded before
// the old blob is deleted, so a crash mid-operation never leaves the item
// pointing at a removed file. If recording the new reference fails, the
// just-written blob is deleted and the old state stands.
func (s *ItemService) ReplacePhoto(ctx context.Context, id int64, upload *Upload) (*models.Item, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	oldRef := current.PhotoRef

	newRef := ""
	if upload != nil {
		newRef, err = s.blobs.Put(ctx, upload.File, upload.Filename)
		if err != nil {
			return nil, fmt.Errorf("store photo: %w", err)
		}
	}

	item, err := s.repo.SetPhotoRef(ctx, id, newRef)
	if err != nil {
		if newRef != "" {
			if cleanupErr := s.blobs.Delete(ctx, newRef); cleanupErr != nil {
				s.log.ErrorContext(ctx, "failed to clean up blob after photo update failure",
					"blob", newRef, "error", cleanupErr)
			}
		}
		return nil, fmt.Errorf("set photo ref: %w", err)
	}

	if oldRef != "" && oldRef != newRef {
		if err := s.blobs.Delete(ctx, oldRef); err != nil {
			// The new reference is already recorded; the old blob is now an
			// orphan the worker sweep will reclaim.
			s.log.WarnContext(ctx, "failed to delete replaced blob",
				"blob", oldRef, "error", err)
		}
	}

	s.refreshCache(ctx, item)
	return item, nil
}

// OpenPhoto returns a reader over the item's photo bytes. Absence of the
// item, of a photo reference, or of the blob on disk all surface as
// ErrItemNotFound.
func (s *ItemService) OpenPhoto(ctx context.Context, id int64) (io.ReadCloser, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if !item.HasPhoto() {
		return nil, invdomain.ErrItemNotFound
	}

	rc, err := s.blobs.Open(ctx, item.PhotoRef)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) || errors.Is(err, blobstore.ErrInvalidName) {
			return nil, invdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("open photo: %w", err)
	}
	return rc, nil
}

// Delete removes the item record and then its blob. Reports whether an item
// existed; deleting a missing item is not an error.
//
// Ordering: record first, then blob. An orphaned blob is a harmless leak the
// worker sweep reclaims; an item referencing a missing blob is the worse
// failure mode and is avoided by never deleting the blob ahead of the record.
func (s *ItemService) Delete(ctx context.Context, id int64) (bool, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, invdomain.ErrItemNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get item: %w", err)
	}

	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}

	if existed && item.HasPhoto() {
		if err := s.blobs.Delete(ctx, item.PhotoRef); err != nil {
			s.log.WarnContext(ctx, "failed to delete blob for removed item",
				"blob", item.PhotoRef, "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.WarnContext(ctx, "item cache invalidation failed", "item_id", id, "error", err)
		}
	}
	return existed, nil
}

// Search fetches the item for the search endpoint. Identical lookup semantics
// to Get; the hint suffix is a display concern applied by the view layer.
func (s *ItemService) Search(ctx context.Context, id int64) (*models.Item, error) {
	return s.Get(ctx, id)
}

// maskDangling returns the item with its photo reference cleared when the
// referenced blob is missing from storage. The stored record is untouched.
func (s *ItemService) maskDangling(ctx context.Context, item *models.Item) *models.Item {
	if !item.HasPhoto() || s.blobs.Exists(item.PhotoRef) {
		return item
	}
	s.log.WarnContext(ctx, "item references missing blob, reporting as no photo",
		"item_id", item.ID, "blob", item.PhotoRef)
	masked := item.Clone()
	masked.PhotoRef = ""
	return masked
}

// refreshCache writes the item into the cache before the mutation returns, so
// the cached view never lags a completed mutation. If the write fails the
// entry is dropped instead, so a stale version is never left pinned in Redis.
func (s *ItemService) refreshCache(ctx context.Context, item *models.Item) {
	if s.cache == nil {
		return
	}
	cached := &pkgcache.CachedItem{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		Photo:       item.PhotoRef,
	}
	if err := s.cache.Set(ctx, cached); err != nil {
		s.log.WarnContext(ctx, "item cache refresh failed, dropping entry",
			"item_id", item.ID, "error", err)
		if err := s.cache.Delete(ctx, item.ID); err != nil {
			s.log.WarnContext(ctx, "item cache invalidation failed",
				"item_id", item.ID, "error", err)
		}
	}
}
