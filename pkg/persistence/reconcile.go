package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/liftbook/liftbook/pkg/models"
)

// Reconcile repairs a half-written outbox/placeholder pair. The two records
// are written one after the other on submit, so a crash between the writes
// can leave either side alone. A placeholder without a backing outbox entry
// is discarded; an outbox entry without a placeholder gets one synthesized
// from the entry. Run once on startup before the processor is triggered.
func Reconcile(ctx context.Context, p Persistence, logger *slog.Logger) error {
	entry, err := p.OutboxRepository().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load outbox entry: %w", err)
	}

	placeholder, err := p.PlaceholderRepository().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load placeholder: %w", err)
	}

	switch {
	case entry == nil && placeholder != nil:
		logger.WarnContext(ctx, "Discarding orphaned placeholder", "placeholderId", placeholder.ID)

		if err := p.PlaceholderRepository().Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear orphaned placeholder: %w", err)
		}
	case entry != nil && placeholder == nil:
		logger.WarnContext(ctx, "Synthesizing placeholder for orphaned outbox entry", "dedupToken", entry.DedupToken)

		synthesized := &models.Placeholder{
			ID:        "pending-" + entry.DedupToken,
			Title:     entry.Title,
			ImageURL:  entry.ImageURL,
			CreatedAt: entry.PerformedAt,
			IsPending: true,
		}

		if err := p.PlaceholderRepository().Put(ctx, synthesized); err != nil {
			return fmt.Errorf("failed to store synthesized placeholder: %w", err)
		}
	}

	return nil
}
