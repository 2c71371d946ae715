package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	snapshotPrefix = "leadsync:snapshot:"
	snapshotTTL    = 24 * time.Hour
)

// commands is the subset of *redis.Client the snapshot cache uses.
type commands interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

type Client struct {
	rdb commands
}

// Snapshot is the last known server state for one scope.
type Snapshot struct {
	Leads        []crm.Lead        `json:"leads"`
	Interactions []crm.Interaction `json:"interactions"`
	FetchedAt    time.Time         `json:"fetched_at"`
}

func NewClient(addr, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	client := &Client{rdb: rdb}

	if err := client.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).
			Str("addr", addr).
			Int("db", db).
			Msg("Redis connection failed")
	} else {
		log.Info().
			Str("addr", addr).
			Int("db", db).
			Msg("Redis connected successfully")
	}

	return client
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// SaveSnapshot stores the state for key, replacing any previous snapshot.
func (c *Client) SaveSnapshot(ctx context.Context, key string, snapshot Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := c.rdb.Set(ctx, snapshotPrefix+key, payload, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored state for key, or nil when there is none.
func (c *Client) LoadSnapshot(ctx context.Context, key string) (*Snapshot, error) {
	payload, err := c.rdb.Get(ctx, snapshotPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
