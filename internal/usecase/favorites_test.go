package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/housemarket/browse-service/internal/port/cache"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// memStore is an in-memory cache.Store used by the client-persisted-state
// tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return val, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func TestFavorites_ToggleAddsAndRemoves(t *testing.T) {
	uc := NewFavoritesUseCase(newMemStore(), zap.NewNop())
	ctx := context.Background()

	on, err := uc.Toggle(ctx, "user-1", "listing-a")
	assert.NoError(t, err)
	assert.True(t, on)
	assert.True(t, uc.IsFavorite(ctx, "user-1", "listing-a"))

	off, err := uc.Toggle(ctx, "user-1", "listing-a")
	assert.NoError(t, err)
	assert.False(t, off)
	assert.False(t, uc.IsFavorite(ctx, "user-1", "listing-a"))
}

func TestFavorites_DoubleToggleRestoresState(t *testing.T) {
	uc := NewFavoritesUseCase(newMemStore(), zap.NewNop())
	ctx := context.Background()

	_, err := uc.Toggle(ctx, "user-1", "listing-a")
	assert.NoError(t, err)
	before := uc.IsFavorite(ctx, "user-1", "listing-b")

	_, err = uc.Toggle(ctx, "user-1", "listing-b")
	assert.NoError(t, err)
	_, err = uc.Toggle(ctx, "user-1", "listing-b")
	assert.NoError(t, err)

	assert.Equal(t, before, uc.IsFavorite(ctx, "user-1", "listing-b"))
	assert.True(t, uc.IsFavorite(ctx, "user-1", "listing-a"))
}

func TestFavorites_ListPreservesInsertionOrder(t *testing.T) {
	uc := NewFavoritesUseCase(newMemStore(), zap.NewNop())
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		_, err := uc.Toggle(ctx, "user-1", id)
		assert.NoError(t, err)
	}

	assert.Equal(t, []string{"c", "a", "b"}, uc.List(ctx, "user-1"))
	assert.Equal(t, 3, uc.Count(ctx, "user-1"))
}

func TestFavorites_CorruptPayloadTreatedAsEmpty(t *testing.T) {
	store := newMemStore()
	assert.NoError(t, store.Set(context.Background(), "housemarket:favorites:user-1", []byte("{not json"), 0))

	uc := NewFavoritesUseCase(store, zap.NewNop())
	ctx := context.Background()

	assert.Empty(t, uc.List(ctx, "user-1"))
	assert.Equal(t, 0, uc.Count(ctx, "user-1"))

	// The store recovers on the next mutation.
	on, err := uc.Toggle(ctx, "user-1", "listing-a")
	assert.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"listing-a"}, uc.List(ctx, "user-1"))
}

func TestFavorites_UsersAreIsolated(t *testing.T) {
	uc := NewFavoritesUseCase(newMemStore(), zap.NewNop())
	ctx := context.Background()

	_, err := uc.Toggle(ctx, "user-1", "listing-a")
	assert.NoError(t, err)

	assert.False(t, uc.IsFavorite(ctx, "user-2", "listing-a"))
	assert.Empty(t, uc.List(ctx, "user-2"))
}
