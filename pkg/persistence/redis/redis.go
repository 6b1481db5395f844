// Package redis provides Redis persistence for drafts. Each draft is a JSON
// document under atrium:draft:<id>, with a sorted-set index by creation time
// for listings.
package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atriumhq/atrium/pkg/persistence"
	goredis "github.com/redis/go-redis/v9"
)

// Persistence implements the persistence layer for Redis.
type Persistence struct {
	client    *goredis.Client
	logger    *slog.Logger
	draftRepo *DraftRepository
}

// NewPersistence creates a new Redis persistence layer from a redis:// URL.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	opts, err := goredis.ParseURL(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Persistence{
		client:    client,
		logger:    logger,
		draftRepo: NewDraftRepository(client, logger),
	}, nil
}

// Close closes the Redis connection.
func (p *Persistence) Close(_ context.Context) error {
	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close redis connection: %w", err)
	}

	return nil
}

// HealthCheck verifies the Redis connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Drafts returns the draft repository implementation for Redis.
func (p *Persistence) Drafts() persistence.DraftRepository {
	return p.draftRepo
}
