package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/stockroom/pkg/database"
	"github.com/ghuser/stockroom/pkg/events"
	invdomain "github.com/ghuser/stockroom/services/inventory/domain"
	domainevents "github.com/ghuser/stockroom/services/inventory/domain/events"
	"github.com/ghuser/stockroom/services/inventory/domain/models"
	"github.com/ghuser/stockroom/services/inventory/domain/repositories"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
// IDs come from a BIGSERIAL sequence, so they are monotonic and never reused
// even after deletion.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection
// pool and event bus. The bus publishes item lifecycle events in the same
// transaction as the mutation; pass nil to disable publishing.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// Create inserts a new record and publishes ItemCreatedEvent within the same
// transaction.
func (r *ItemRepository) Create(ctx context.Context, name models.ItemName, description, photoRef string) (*models.Item, error) {
	if name.String() == "" {
		return nil, invdomain.ErrInvalidItemName
	}

	var item *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`INSERT INTO items (name, description, photo) VALUES ($1, $2, $3) RETURNING id`,
			name.String(), description, photoRef,
		)
		var id int64
		if err := row.Scan(&id); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
				return invdomain.ErrInvalidItemName
			}
			return fmt.Errorf("%w: insert item: %w", invdomain.ErrRepository, err)
		}

		item = &models.Item{ID: id, Name: name, Description: description, PhotoRef: photoRef}

		if r.bus != nil {
			if err := r.publishCreated(tx, item); err != nil {
				return fmt.Errorf("publish item created: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Get retrieves an Item by ID. Returns ErrItemNotFound if no record exists.
func (r *ItemRepository) Get(ctx context.Context, id int64) (*models.Item, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT id, name, description, photo FROM items WHERE id = $1`, id,
	)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("%w: query item: %w", invdomain.ErrRepository, err)
	}
	return item, nil
}

// List returns all items ordered by id ascending.
func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT id, name, description, photo FROM items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query items: %w", invdomain.ErrRepository, err)
	}
	defer rows.Close() //nolint:errcheck

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan item: %w", invdomain.ErrRepository, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate items: %w", invdomain.ErrRepository, err)
	}
	return items, nil
}

// UpdateMetadata applies a partial update. Nil patch fields keep the stored
// value via COALESCE. Returns ErrItemNotFound if no record exists.
func (r *ItemRepository) UpdateMetadata(ctx context.Context, id int64, patch repositories.MetadataPatch) (*models.Item, error) {
	if patch.Name != nil {
		if _, err := models.NewItemName(*patch.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidItemName, err)
		}
	}

	row := r.db.DB().QueryRowContext(ctx,
		`UPDATE items
		    SET name        = COALESCE($2, name),
		        description = COALESCE($3, description),
		        updated_at  = now()
		  WHERE id = $1
		  RETURNING id, name, description, photo`,
		id, patch.Name, patch.Description,
	)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invdomain.ErrItemNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return nil, invdomain.ErrInvalidItemName
		}
		return nil, fmt.Errorf("%w: update item: %w", invdomain.ErrRepository, err)
	}
	return item, nil
}

// SetPhotoRef records the item's photo reference. An empty ref clears it.
func (r *ItemRepository) SetPhotoRef(ctx context.Context, id int64, photoRef string) (*models.Item, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`UPDATE items SET photo = $2, updated_at = now()
		  WHERE id = $1
		  RETURNING id, name, description, photo`,
		id, photoRef,
	)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("%w: set photo ref: %w", invdomain.ErrRepository, err)
	}
	return item, nil
}

// Delete removes the item and publishes ItemDeletedEvent within the same
// transaction. Reports whether a record existed; deleting a missing item is
// not an error.
func (r *ItemRepository) Delete(ctx context.Context, id int64) (bool, error) {
	existed := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`DELETE FROM items WHERE id = $1 RETURNING photo`, id,
		)
		var photoRef string
		if err := row.Scan(&photoRef); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("%w: delete item: %w", invdomain.ErrRepository, err)
		}
		existed = true

		if r.bus != nil {
			if err := r.publishDeleted(tx, id, photoRef); err != nil {
				return fmt.Errorf("publish item deleted: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}

func (r *ItemRepository) publishCreated(tx *sql.Tx, item *models.Item) error {
	event := domainevents.ItemCreatedEvent{
		EventID:     uuid.New(),
		Version:     1,
		ItemID:      item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		PhotoRef:    item.PhotoRef,
		OccurredAt:  time.Now().UTC(),
	}
	return r.publish(tx, domainevents.TopicItemCreated, event.EventID, event)
}

func (r *ItemRepository) publishDeleted(tx *sql.Tx, id int64, photoRef string) error {
	event := domainevents.ItemDeletedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     id,
		PhotoRef:   photoRef,
		OccurredAt: time.Now().UTC(),
	}
	return r.publish(tx, domainevents.TopicItemDeleted, event.EventID, event)
}

func (r *ItemRepository) publish(tx *sql.Tx, topic string, eventID uuid.UUID, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*models.Item, error) {
	var (
		item models.Item
		name string
	)
	if err := s.Scan(&item.ID, &name, &item.Description, &item.PhotoRef); err != nil {
		return nil, err
	}
	item.Name = models.ItemName(name)
	return &item, nil
}
