package file

import (
	"context"

	"github.com/liftbook/liftbook/pkg/models"
)

// PlaceholderRepository handles placeholder record file operations.
type PlaceholderRepository struct {
	store *Persistence
}

// Put stores the placeholder, overwriting any previous one.
func (r *PlaceholderRepository) Put(_ context.Context, placeholder *models.Placeholder) error {
	return r.store.writeRecord(placeholderRecord, placeholder)
}

// Get returns the pending placeholder, or nil when none exists.
func (r *PlaceholderRepository) Get(_ context.Context) (*models.Placeholder, error) {
	var placeholder models.Placeholder

	found, err := r.store.readRecord(placeholderRecord, &placeholder)
	if err != nil || !found {
		return nil, err
	}

	return &placeholder, nil
}

// Clear removes the stored placeholder.
func (r *PlaceholderRepository) Clear(_ context.Context) error {
	return r.store.deleteRecord(placeholderRecord)
}
