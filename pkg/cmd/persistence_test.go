package cmd_test

import (
	"context"
	"testing"

	"github.com/liftbook/liftbook/pkg/cmd"
	"github.com/liftbook/liftbook/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersistence_FileURL(t *testing.T) {
	t.Parallel()

	p, err := cmd.NewPersistence("file://" + t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &file.Persistence{}, p)

	require.NoError(t, p.HealthCheck(context.Background()))
	require.NoError(t, p.Close(context.Background()))
}

func TestNewPersistence_BarePathFallsBackToFile(t *testing.T) {
	t.Parallel()

	p, err := cmd.NewPersistence(t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &file.Persistence{}, p)
}
