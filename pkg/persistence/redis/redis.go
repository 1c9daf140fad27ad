// Package redis provides Redis-backed persistence for the pipeline records.
// Used when the sync daemon runs detached from the device and the records
// must survive host restarts, with one key per record.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/liftbook/liftbook/pkg/models"
	"github.com/liftbook/liftbook/pkg/persistence"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "liftbook:sync:"

// Persistence implements the persistence.Persistence interface on Redis.
type Persistence struct {
	client *goredis.Client
}

// NewPersistence creates a Redis persistence layer from a redis:// URL.
func NewPersistence(url string) (*Persistence, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &Persistence{client: goredis.NewClient(opts)}, nil
}

// Close releases the underlying Redis connection pool.
func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}

// HealthCheck pings the Redis server.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", persistence.ErrStoreUnavailable, err)
	}

	return nil
}

// DraftRepository returns the draft repository implementation for Redis persistence.
func (p *Persistence) DraftRepository() persistence.DraftRepository {
	return &DraftRepository{store: p}
}

// OutboxRepository returns the outbox repository implementation for Redis persistence.
func (p *Persistence) OutboxRepository() persistence.OutboxRepository {
	return &OutboxRepository{store: p}
}

// PlaceholderRepository returns the placeholder repository implementation for Redis persistence.
func (p *Persistence) PlaceholderRepository() persistence.PlaceholderRepository {
	return &PlaceholderRepository{store: p}
}

// readRecord loads and decodes a record. A missing key reads as absent; a
// value that no longer decodes is deleted and also reads as absent.
func (p *Persistence) readRecord(ctx context.Context, name string, v any) (bool, error) {
	body, err := p.client.Get(ctx, keyPrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}

		return false, persistence.NewStoreError("Load", name, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		if wipeErr := p.deleteRecord(ctx, name); wipeErr != nil {
			return false, persistence.NewStoreError("Load", name, fmt.Errorf("%w: %w", persistence.ErrCorruptRecord, wipeErr))
		}

		return false, nil
	}

	return true, nil
}

func (p *Persistence) writeRecord(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return persistence.NewStoreError("Put", name, err)
	}

	if err := p.client.Set(ctx, keyPrefix+name, data, 0).Err(); err != nil {
		return persistence.NewStoreError("Put", name, err)
	}

	return nil
}

func (p *Persistence) deleteRecord(ctx context.Context, name string) error {
	if err := p.client.Del(ctx, keyPrefix+name).Err(); err != nil {
		return persistence.NewStoreError("Clear", name, err)
	}

	return nil
}

// DraftRepository handles draft record operations on Redis.
type DraftRepository struct {
	store *Persistence
}

func (r *DraftRepository) Load(ctx context.Context) (*models.Draft, error) {
	var draft models.Draft

	found, err := r.store.readRecord(ctx, "draft", &draft)
	if err != nil || !found {
		return nil, err
	}

	return &draft, nil
}

func (r *DraftRepository) Save(ctx context.Context, draft *models.Draft) error {
	if draft.IsEmpty() {
		return r.Clear(ctx)
	}

	return r.store.writeRecord(ctx, "draft", draft)
}

func (r *DraftRepository) Clear(ctx context.Context) error {
	return r.store.deleteRecord(ctx, "draft")
}

// OutboxRepository handles outbox record operations on Redis.
type OutboxRepository struct {
	store *Persistence
}

func (r *OutboxRepository) Put(ctx context.Context, entry *models.OutboxEntry) error {
	return r.store.writeRecord(ctx, "outbox", entry)
}

func (r *OutboxRepository) Get(ctx context.Context) (*models.OutboxEntry, error) {
	var entry models.OutboxEntry

	found, err := r.store.readRecord(ctx, "outbox", &entry)
	if err != nil || !found {
		return nil, err
	}

	return &entry, nil
}

func (r *OutboxRepository) Clear(ctx context.Context) error {
	return r.store.deleteRecord(ctx, "outbox")
}

// PlaceholderRepository handles placeholder record operations on Redis.
type PlaceholderRepository struct {
	store *Persistence
}

func (r *PlaceholderRepository) Put(ctx context.Context, placeholder *models.Placeholder) error {
	return r.store.writeRecord(ctx, "placeholder", placeholder)
}

func (r *PlaceholderRepository) Get(ctx context.Context) (*models.Placeholder, error) {
	var placeholder models.Placeholder

	found, err := r.store.readRecord(ctx, "placeholder", &placeholder)
	if err != nil || !found {
		return nil, err
	}

	return &placeholder, nil
}

func (r *PlaceholderRepository) Clear(ctx context.Context) error {
	return r.store.deleteRecord(ctx, "placeholder")
}
