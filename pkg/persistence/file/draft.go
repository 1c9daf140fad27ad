package file

import (
	"context"

	"github.com/liftbook/liftbook/pkg/models"
)

// DraftRepository handles draft record file operations.
type DraftRepository struct {
	store *Persistence
}

// Load returns the stored draft, or nil when none exists.
func (r *DraftRepository) Load(_ context.Context) (*models.Draft, error) {
	var draft models.Draft

	found, err := r.store.readRecord(draftRecord, &draft)
	if err != nil || !found {
		return nil, err
	}

	return &draft, nil
}

// Save overwrites the stored draft. An empty draft clears the record instead
// of persisting a blank document.
func (r *DraftRepository) Save(ctx context.Context, draft *models.Draft) error {
	if draft.IsEmpty() {
		return r.Clear(ctx)
	}

	return r.store.writeRecord(draftRecord, draft)
}

// Clear removes the stored draft.
func (r *DraftRepository) Clear(_ context.Context) error {
	return r.store.deleteRecord(draftRecord)
}
