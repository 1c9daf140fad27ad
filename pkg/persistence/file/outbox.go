package file

import (
	"context"

	"github.com/liftbook/liftbook/pkg/models"
)

// OutboxRepository handles outbox record file operations. The outbox is a
// single slot: Put replaces whatever entry was there.
type OutboxRepository struct {
	store *Persistence
}

// Put stores the entry, overwriting any previous one.
func (r *OutboxRepository) Put(_ context.Context, entry *models.OutboxEntry) error {
	return r.store.writeRecord(outboxRecord, entry)
}

// Get returns the pending entry, or nil when the outbox is empty.
func (r *OutboxRepository) Get(_ context.Context) (*models.OutboxEntry, error) {
	var entry models.OutboxEntry

	found, err := r.store.readRecord(outboxRecord, &entry)
	if err != nil || !found {
		return nil, err
	}

	return &entry, nil
}

// Clear empties the outbox.
func (r *OutboxRepository) Clear(_ context.Context) error {
	return r.store.deleteRecord(outboxRecord)
}
