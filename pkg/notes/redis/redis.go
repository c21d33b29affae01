// Package redis provides a Redis-backed notes store.
//
// Each entry is a JSON string under prefix + key, so several servers can
// share annotations.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/matzehuels/hanzitree/pkg/notes"
)

// DefaultPrefix namespaces entry keys.
const DefaultPrefix = "hanzitree:notes:"

// Config configures the Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store stores entries in Redis.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection with PING.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewFromClient(client, cfg.Prefix), nil
}

// NewFromClient wraps an existing client. An empty prefix means
// DefaultPrefix.
func NewFromClient(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k string) string { return s.prefix + k }

func (s *Store) Get(ctx context.Context, key string) (notes.Entry, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return notes.Entry{}, false, nil
	}
	if err != nil {
		return notes.Entry{}, false, fmt.Errorf("redis get: %w", err)
	}
	var e notes.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return notes.Entry{}, false, fmt.Errorf("parse notes entry: %w", err)
	}
	return e, true, nil
}

func (s *Store) Set(ctx context.Context, key string, e notes.Entry) error {
	data, err := json.Marshal(notes.Stamp(e))
	if err != nil {
		return fmt.Errorf("marshal notes entry: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ notes.Store = (*Store)(nil)
