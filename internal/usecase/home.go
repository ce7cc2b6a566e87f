package usecase

import (
	"context"
	"fmt"

	"github.com/housemarket/browse-service/internal/entity"
	"github.com/housemarket/browse-service/internal/port/repository"
	"go.uber.org/zap"
)

const homeStripLimit = 4

// HomeView is the landing-page composition: a short strip per section.
type HomeView struct {
	Offers []*entity.Listing
	Rent   []*entity.Listing
	Sale   []*entity.Listing
}

type HomeUseCase struct {
	repo   repository.ListingRepository
	logger *zap.Logger
}

func NewHomeUseCase(repo repository.ListingRepository, log *zap.Logger) *HomeUseCase {
	return &HomeUseCase{
		repo:   repo,
		logger: log,
	}
}

// Compose fetches the newest few listings per section and applies the hero
// search, if any, through the shared filter engine.
func (uc *HomeUseCase) Compose(ctx context.Context, search string) (*HomeView, error) {
	filters := DefaultFilters()
	filters.Search = search

	offers, err := uc.strip(ctx, repository.ListingQuery{OfferOnly: true}, filters)
	if err != nil {
		return nil, err
	}
	rent, err := uc.strip(ctx, repository.ListingQuery{Type: entity.ListingTypeRent}, filters)
	if err != nil {
		return nil, err
	}
	sale, err := uc.strip(ctx, repository.ListingQuery{Type: entity.ListingTypeSale}, filters)
	if err != nil {
		return nil, err
	}

	return &HomeView{Offers: offers, Rent: rent, Sale: sale}, nil
}

func (uc *HomeUseCase) strip(ctx context.Context, query repository.ListingQuery, filters FilterState) ([]*entity.Listing, error) {
	listings, err := uc.repo.FindPage(ctx, query, nil, homeStripLimit)
	if err != nil {
		uc.logger.Error("HomeUseCase: failed to fetch section",
			zap.Any("query", query), zap.Error(err))
		return nil, fmt.Errorf("HomeUseCase: failed to fetch section: %w", err)
	}
	return ApplyFilters(listings, filters), nil
}
