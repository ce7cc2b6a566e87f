package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/housemarket/browse-service/internal/port/cache"
	"go.uber.org/zap"
)

const favoritesKeyPrefix = "housemarket:favorites:"

// FavoritesUseCase keeps each user's favorite listing ids as a JSON array in
// the key-value store. Missing or corrupt payloads decode to an empty set,
// never an error; every mutation is persisted before it is reported back.
type FavoritesUseCase struct {
	store  cache.Store
	logger *zap.Logger
}

func NewFavoritesUseCase(store cache.Store, log *zap.Logger) *FavoritesUseCase {
	return &FavoritesUseCase{
		store:  store,
		logger: log,
	}
}

func favoritesKey(userID string) string {
	return favoritesKeyPrefix + userID
}

// Toggle flips membership of listingID in the user's favorite set and returns
// the new membership. Toggling twice restores the original state.
func (uc *FavoritesUseCase) Toggle(ctx context.Context, userID, listingID string) (bool, error) {
	ids := uc.load(ctx, userID)

	updated := make([]string, 0, len(ids)+1)
	removed := false
	for _, id := range ids {
		if id == listingID {
			removed = true
			continue
		}
		updated = append(updated, id)
	}
	if !removed {
		updated = append(updated, listingID)
	}

	if err := uc.persist(ctx, userID, updated); err != nil {
		return removed, err
	}
	return !removed, nil
}

func (uc *FavoritesUseCase) IsFavorite(ctx context.Context, userID, listingID string) bool {
	for _, id := range uc.load(ctx, userID) {
		if id == listingID {
			return true
		}
	}
	return false
}

// List returns the user's favorite listing ids in the order they were added.
func (uc *FavoritesUseCase) List(ctx context.Context, userID string) []string {
	return uc.load(ctx, userID)
}

func (uc *FavoritesUseCase) Count(ctx context.Context, userID string) int {
	return len(uc.load(ctx, userID))
}

func (uc *FavoritesUseCase) load(ctx context.Context, userID string) []string {
	raw, err := uc.store.Get(ctx, favoritesKey(userID))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("FavoritesUseCase: failed to read favorites, treating as empty",
				zap.String("user_id", userID), zap.Error(err))
		}
		return []string{}
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		uc.logger.Warn("FavoritesUseCase: corrupt favorites payload, treating as empty",
			zap.String("user_id", userID), zap.Error(err))
		return []string{}
	}
	return ids
}

func (uc *FavoritesUseCase) persist(ctx context.Context, userID string, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("FavoritesUseCase: failed to marshal favorites: %w", err)
	}
	if err := uc.store.Set(ctx, favoritesKey(userID), raw, 0); err != nil {
		uc.logger.Error("FavoritesUseCase: failed to persist favorites",
			zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("FavoritesUseCase: failed to persist favorites: %w", err)
	}
	return nil
}
