package cache

import (
	"context"
	"time"
)

// Store is a small key-value port used for client-persisted state such as the
// favorite set and the recently-viewed list. Values are opaque JSON payloads;
// a ttl of zero means the key never expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type StoreError string

func (e StoreError) Error() string {
	return string(e)
}

const ErrNotFound = StoreError("key not found in store")
