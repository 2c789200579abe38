package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// Storage is a scoped key/value store. A scope plays the role of one browser
// tab: values written under one scope are invisible to every other scope.
// Concrete drivers (memory, sqlite, redis) implement this.
type Storage interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, scope, key string) (string, error)
	Set(ctx context.Context, scope, key, value string) error
	// Delete removes keys; absent keys are not an error.
	Delete(ctx context.Context, scope string, keys ...string) error
	Close() error
}

// Purger is implemented by drivers that can drop a whole scope at once.
type Purger interface {
	PurgeScope(ctx context.Context, scope string) error
}

// Sweeper is implemented by drivers whose rows outlive the process and need
// periodic cleanup.
type Sweeper interface {
	DeleteStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// Bucket is a Storage bound to one scope.
type Bucket struct {
	s     Storage
	scope string
}

// NewBucket binds s to scope.
func NewBucket(s Storage, scope string) *Bucket {
	return &Bucket{s: s, scope: scope}
}

func (b *Bucket) Scope() string { return b.scope }

func (b *Bucket) Get(ctx context.Context, key string) (string, error) {
	return b.s.Get(ctx, b.scope, key)
}

func (b *Bucket) Set(ctx context.Context, key, value string) error {
	return b.s.Set(ctx, b.scope, key, value)
}

func (b *Bucket) Delete(ctx context.Context, keys ...string) error {
	return b.s.Delete(ctx, b.scope, keys...)
}

// Purge drops the whole scope when the driver supports it, and otherwise
// deletes keys one by one.
func (b *Bucket) Purge(ctx context.Context, keys ...string) error {
	if p, ok := b.s.(Purger); ok {
		return p.PurgeScope(ctx, b.scope)
	}
	return b.s.Delete(ctx, b.scope, keys...)
}
