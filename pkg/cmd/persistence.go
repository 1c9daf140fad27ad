// Package cmd wires shared infrastructure for the daemon binaries.
package cmd

import (
	"fmt"
	"strings"

	"github.com/liftbook/liftbook/pkg/persistence"
	"github.com/liftbook/liftbook/pkg/persistence/file"
	"github.com/liftbook/liftbook/pkg/persistence/redis"
)

var supportedPersistenceProviders = []string{"file", "redis", "rediss"}

// NewPersistence selects a storage backend from the database URL scheme.
// Anything that is not redis falls back to the file backend, with the
// path taken from the URL.
func NewPersistence(databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "redis", "rediss":
		p, err := redis.NewPersistence(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://")), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
