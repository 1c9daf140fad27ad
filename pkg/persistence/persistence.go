// Package persistence provides the storage abstraction for the three pipeline
// records: the draft, the outbox entry, and the placeholder projection.
package persistence

import (
	"context"

	"github.com/liftbook/liftbook/pkg/models"
)

// DraftRepository persists the user's in-progress workout description.
type DraftRepository interface {
	// Load returns the stored draft, or nil when none exists. A corrupt
	// stored record is treated as absent and the corrupt key is wiped.
	Load(ctx context.Context) (*models.Draft, error)

	// Save overwrites the stored draft. Saving an empty draft (per
	// Draft.IsEmpty) clears the underlying record instead.
	Save(ctx context.Context, draft *models.Draft) error

	Clear(ctx context.Context) error
}

// OutboxRepository persists at most one submission payload awaiting
// transmission. Put has overwrite semantics: queueing a new submission while
// one is pending replaces it unconditionally.
type OutboxRepository interface {
	Put(ctx context.Context, entry *models.OutboxEntry) error
	Get(ctx context.Context) (*models.OutboxEntry, error)
	Clear(ctx context.Context) error
}

// PlaceholderRepository persists the optimistic feed projection for the
// pending submission. Kept separate from the outbox because UI code polls it
// independently and at a different cadence than the processor reads the outbox.
type PlaceholderRepository interface {
	Put(ctx context.Context, placeholder *models.Placeholder) error
	Get(ctx context.Context) (*models.Placeholder, error)
	Clear(ctx context.Context) error
}

// Persistence aggregates the three record repositories behind one backend.
type Persistence interface {
	DraftRepository() DraftRepository
	OutboxRepository() OutboxRepository
	PlaceholderRepository() PlaceholderRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
