package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/stockroom/pkg/app"
	"github.com/ghuser/stockroom/pkg/cache"
	"github.com/ghuser/stockroom/pkg/config"
	"github.com/ghuser/stockroom/pkg/database"
	"github.com/ghuser/stockroom/pkg/events"
	"github.com/ghuser/stockroom/pkg/logger"
	"github.com/ghuser/stockroom/pkg/telemetry"
	invdomain "github.com/ghuser/stockroom/services/inventory/domain"
	invEvents "github.com/ghuser/stockroom/services/inventory/domain/events"
	"github.com/ghuser/stockroom/services/inventory/infrastructure/blobstore"
	"github.com/ghuser/stockroom/services/inventory/infrastructure/persistence/postgres"
)

// orphanSweepInterval is how often stored blobs are reconciled against the
// item table. orphanMinAge keeps the sweep from racing an in-flight register
// whose blob is written before its record.
const (
	orphanSweepInterval = time.Hour
	orphanMinAge        = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	if cfg.RepositoryBackend != config.BackendPostgres {
		slog.Error("worker requires REPOSITORY_BACKEND=postgres; the flatfile backend publishes no events")
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	var redisClient *cache.RedisClient
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected")
	}

	blobs, err := blobstore.New(cfg.UploadDir, log)
	if err != nil {
		log.Error("failed to open blob store", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	appConfig := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		Blobs:    blobs,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	go runOrphanSweep(sweepCtx, appConfig)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancelSweep()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	topics := map[string]func(context.Context, *message.Message) error{
		invEvents.TopicItemCreated: handleItemCreated(a),
		invEvents.TopicItemDeleted: handleItemDeleted(a),
	}

	names := make([]string, 0, len(topics))
	for topic, handler := range topics {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		names = append(names, topic)

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error",
					"topic", topic,
					"error", err,
				)
			}
		}(topic)
	}

	a.Logger.Info("event subscribers registered", "topics", names)
	return nil
}

// handleItemCreated returns a handler for inventory.item.created events.
// Handlers must be idempotent — EventBus retries up to 3× on failure.
// Warms the Redis read-model cache so subsequent Get calls are served from cache.
//
// The warm reads the current row rather than trusting the event payload: the
// created and deleted topics are independent queues, so a stale created event
// processed after the item's deletion must not write the dead item back.
func handleItemCreated(a *app.Application) func(context.Context, *message.Message) error {
	var itemCache *cache.ItemCache
	if a.Redis != nil {
		itemCache = cache.NewItemCache(a.Redis)
	}
	repo := postgres.NewItemRepository(a.Db, nil)
	return func(ctx context.Context, msg *message.Message) error {
		var evt invEvents.ItemCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if itemCache == nil {
			return nil
		}
		item, err := repo.Get(ctx, evt.ItemID)
		if errors.Is(err, invdomain.ErrItemNotFound) {
			a.Logger.InfoContext(ctx, "item gone before cache warm, skipping",
				"item_id", evt.ItemID)
			return nil
		}
		if err != nil {
			return err
		}
		if err := itemCache.Set(ctx, &cache.CachedItem{
			ID:          item.ID,
			Name:        item.Name.String(),
			Description: item.Description,
			Photo:       item.PhotoRef,
		}); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache warm failed for item.created",
				"item_id", evt.ItemID, "error", err)
		} else {
			a.Logger.InfoContext(ctx, "cache warmed", "item_id", evt.ItemID)
		}

		return nil
	}
}

// handleItemDeleted returns a handler for inventory.item.deleted events.
// Re-runs blob cleanup for the deleted item: the API already attempted it,
// but blob deletion is idempotent so replaying it here covers the case where
// the API crashed between the record delete and the blob delete.
func handleItemDeleted(a *app.Application) func(context.Context, *message.Message) error {
	var itemCache *cache.ItemCache
	if a.Redis != nil {
		itemCache = cache.NewItemCache(a.Redis)
	}
	return func(ctx context.Context, msg *message.Message) error {
		var evt invEvents.ItemDeletedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if evt.PhotoRef != "" {
			if err := a.Blobs.Delete(ctx, evt.PhotoRef); err != nil {
				return err
			}
		}

		if itemCache != nil {
			if err := itemCache.Delete(ctx, evt.ItemID); err != nil {
				a.Logger.WarnContext(ctx, "cache invalidation failed for item.deleted",
					"item_id", evt.ItemID, "error", err)
			}
		}

		a.Logger.InfoContext(ctx, "item cleanup replayed", "item_id", evt.ItemID)
		return nil
	}
}

// runOrphanSweep periodically reconciles stored blobs against the item table
// and removes blobs no item references. Compensation in the API is
// best-effort, so a crash mid-operation can strand a blob; the sweep is the
// backstop that reclaims it. Blobs younger than orphanMinAge are left alone
// so an upload racing its own record insert is never collected.
func runOrphanSweep(ctx context.Context, a *app.Application) {
	repo := postgres.NewItemRepository(a.Db, nil)
	ticker := time.NewTicker(orphanSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Logger.Info("orphan sweep shutting down")
			return
		case <-ticker.C:
			if err := sweepOrphans(ctx, a, repo); err != nil {
				a.Logger.ErrorContext(ctx, "orphan sweep failed", "error", err)
			}
		}
	}
}

func sweepOrphans(ctx context.Context, a *app.Application, repo *postgres.ItemRepository) error {
	items, err := repo.List(ctx)
	if err != nil {
		return err
	}
	referenced := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.HasPhoto() {
			referenced[item.PhotoRef] = struct{}{}
		}
	}

	cutoff := time.Now().Add(-orphanMinAge)
	removed := 0
	err = a.Blobs.Walk(func(name string) error {
		if _, ok := referenced[name]; ok {
			return nil
		}
		info, err := os.Stat(a.Blobs.Path(name))
		if err != nil || info.ModTime().After(cutoff) {
			return nil
		}
		if err := a.Blobs.Delete(ctx, name); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return err
	}

	if removed > 0 {
		a.Logger.InfoContext(ctx, "orphaned blobs removed", "count", removed)
	}
	return nil
}
