// Package cmd wires shared infrastructure for the binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atriumhq/atrium/pkg/persistence"
	"github.com/atriumhq/atrium/pkg/persistence/file"
	"github.com/atriumhq/atrium/pkg/persistence/postgresql"
	"github.com/atriumhq/atrium/pkg/persistence/redis"
)

// NewPersistence selects a storage backend from the database URL scheme.
// Anything that is not postgres or redis falls back to the file backend, with
// the URL treated as a directory path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	scheme, _, _ := strings.Cut(databaseURL, "://")

	switch scheme {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set up postgresql persistence: %w", err)
		}

		return p, nil
	case "redis":
		p, err := redis.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set up redis persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://")), nil
	}
}
