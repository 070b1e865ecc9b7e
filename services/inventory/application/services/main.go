package services

import (
	"fmt"

	"github.com/ghuser/stockroom/pkg/app"
	"github.com/ghuser/stockroom/pkg/cache"
	"github.com/ghuser/stockroom/pkg/config"
	"github.com/ghuser/stockroom/services/inventory/domain/repositories"
	"github.com/ghuser/stockroom/services/inventory/infrastructure/persistence/flatfile"
	"github.com/ghuser/stockroom/services/inventory/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires the inventory application services with infrastructure from the
// Application container. The repository backend is selected by configuration:
// postgres uses the shared pool and publishes lifecycle events through the
// event bus; flatfile persists to a single JSON document and publishes nothing.
func New(a *app.Application) (*Services, error) {
	var repo repositories.ItemRepository
	switch a.Config.RepositoryBackend {
	case config.BackendPostgres:
		repo = postgres.NewItemRepository(a.Db, a.EventBus)
	case config.BackendFlatfile:
		r, err := flatfile.NewItemRepository(a.Config.DataFile)
		if err != nil {
			return nil, fmt.Errorf("open flatfile repository: %w", err)
		}
		repo = r
	default:
		return nil, fmt.Errorf("unknown repository backend %q", a.Config.RepositoryBackend)
	}

	// Declared as the interface so a missing Redis leaves it nil, not a
	// typed-nil pointer the service would try to call.
	var itemCache ItemCache
	if a.Redis != nil {
		itemCache = cache.NewItemCache(a.Redis)
	}

	return &Services{
		Item: NewItemService(repo, a.Blobs, itemCache, a.Logger),
	}, nil
}
