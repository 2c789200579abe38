package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/leavedesk/internal/client/storage"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the client.
const DefaultPrefix = "leavedesk"

// Store keeps tab scoped values in redis under "<prefix>:<scope>:<key>".
// Every write refreshes the key TTL so abandoned tabs expire on their own.
type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ storage.Storage = (*Store)(nil)

// NewStore wraps client. A zero ttl stores keys without expiry.
func NewStore(client redis.UniversalClient, ttl time.Duration) *Store {
	return &Store{client: client, prefix: DefaultPrefix, ttl: ttl}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string, ttl time.Duration) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewStore(client, ttl), nil
}

// WithPrefix returns a copy that namespaces keys under prefix.
func (s *Store) WithPrefix(prefix string) *Store {
	cp := *s
	cp.prefix = prefix
	return &cp
}

func (s *Store) key(scope, key string) string {
	return s.prefix + ":" + scope + ":" + key
}

func (s *Store) Get(ctx context.Context, scope, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(scope, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, scope, key, value string) error {
	if err := s.client.Set(ctx, s.key(scope, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, scope string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(scope, k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// PurgeScope deletes every key of scope using SCAN.
func (s *Store) PurgeScope(ctx context.Context, scope string) error {
	iter := s.client.Scan(ctx, 0, s.key(scope, "*"), 100).Iterator()

	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) == 0 {
		return nil
	}
	return s.client.Del(ctx, batch...).Err()
}

func (s *Store) Close() error { return s.client.Close() }
