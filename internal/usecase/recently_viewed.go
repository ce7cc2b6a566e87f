package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/housemarket/browse-service/internal/port/cache"
	"go.uber.org/zap"
)

const (
	recentlyViewedKeyPrefix = "housemarket:recently_viewed:"
	recentlyViewedMax       = 10
)

type RecentlyViewedEntry struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// RecentlyViewedUseCase keeps the last ten listings a user opened,
// most-recent-first, de-duplicated by id.
type RecentlyViewedUseCase struct {
	store  cache.Store
	logger *zap.Logger
}

func NewRecentlyViewedUseCase(store cache.Store, log *zap.Logger) *RecentlyViewedUseCase {
	return &RecentlyViewedUseCase{
		store:  store,
		logger: log,
	}
}

func recentlyViewedKey(userID string) string {
	return recentlyViewedKeyPrefix + userID
}

// Add records a viewed listing. Entries missing an id or type are ignored;
// re-adding a known id moves it to the front without duplication.
func (uc *RecentlyViewedUseCase) Add(ctx context.Context, userID string, entry RecentlyViewedEntry) error {
	if entry.ID == "" || entry.Type == "" {
		return nil
	}
	if entry.Name == "" {
		entry.Name = "Listing"
	}

	items := uc.load(ctx, userID)
	updated := make([]RecentlyViewedEntry, 0, len(items)+1)
	updated = append(updated, entry)
	for _, it := range items {
		if it.ID == entry.ID {
			continue
		}
		updated = append(updated, it)
	}
	if len(updated) > recentlyViewedMax {
		updated = updated[:recentlyViewedMax]
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("RecentlyViewedUseCase: failed to marshal entries: %w", err)
	}
	if err := uc.store.Set(ctx, recentlyViewedKey(userID), raw, 0); err != nil {
		uc.logger.Error("RecentlyViewedUseCase: failed to persist entries",
			zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("RecentlyViewedUseCase: failed to persist entries: %w", err)
	}
	return nil
}

// List returns the user's recently viewed listings, most recent first.
func (uc *RecentlyViewedUseCase) List(ctx context.Context, userID string) []RecentlyViewedEntry {
	return uc.load(ctx, userID)
}

func (uc *RecentlyViewedUseCase) load(ctx context.Context, userID string) []RecentlyViewedEntry {
	raw, err := uc.store.Get(ctx, recentlyViewedKey(userID))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("RecentlyViewedUseCase: failed to read entries, treating as empty",
				zap.String("user_id", userID), zap.Error(err))
		}
		return []RecentlyViewedEntry{}
	}

	var items []RecentlyViewedEntry
	if err := json.Unmarshal(raw, &items); err != nil {
		uc.logger.Warn("RecentlyViewedUseCase: corrupt payload, treating as empty",
			zap.String("user_id", userID), zap.Error(err))
		return []RecentlyViewedEntry{}
	}
	return items
}
