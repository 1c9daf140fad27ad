package redis

import (
	"context"
	"os"
	"testing"

	"github.com/liftbook/liftbook/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests require a running Redis instance; set REDIS_URL to run.
func setupRedis(t *testing.T) *Persistence {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping Redis integration tests")
	}

	p, err := NewPersistence(url)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.HealthCheck(ctx))

	t.Cleanup(func() {
		_ = p.OutboxRepository().Clear(ctx)
		_ = p.DraftRepository().Clear(ctx)
		_ = p.PlaceholderRepository().Clear(ctx)
		_ = p.Close(ctx)
	})

	return p
}

func TestRedisPersistence_OutboxRoundTrip(t *testing.T) {
	p := setupRedis(t)
	ctx := context.Background()

	entry := &models.OutboxEntry{
		Title:      "Push Day",
		Notes:      "Bench 3x5 @100",
		UserID:     "user-1",
		DedupToken: "token-1",
		WeightUnit: models.WeightUnitKilograms,
	}

	require.NoError(t, p.OutboxRepository().Put(ctx, entry))

	loaded, err := p.OutboxRepository().Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, entry.DedupToken, loaded.DedupToken)

	require.NoError(t, p.OutboxRepository().Clear(ctx))

	loaded, err = p.OutboxRepository().Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisPersistence_EmptyDraftClears(t *testing.T) {
	p := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, p.DraftRepository().Save(ctx, &models.Draft{Notes: "squats"}))
	require.NoError(t, p.DraftRepository().Save(ctx, &models.Draft{}))

	loaded, err := p.DraftRepository().Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestNewPersistence_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := NewPersistence("not-a-redis-url")
	assert.Error(t, err)
}
