package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisPort persists the knowledge snapshot under one Redis key, for
// hosts that already run Redis and want the blob off the local disk
type RedisPort struct {
	client *redis.Client
	key    string
}

// RedisOptions configures the Redis-backed port
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisPort connects to Redis and verifies the connection
func NewRedisPort(opts RedisOptions) (*RedisPort, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPort{client: client, key: snapshotKey}, nil
}

// Load reads the snapshot blob
func (p *RedisPort) Load(ctx context.Context) (*Snapshot, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("corrupt snapshot: %w", err)
	}
	return &snap, nil
}

// Save replaces the snapshot blob
func (p *RedisPort) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return p.client.Set(ctx, p.key, data, 0).Err()
}

// Close closes the Redis connection
func (p *RedisPort) Close() error {
	return p.client.Close()
}
