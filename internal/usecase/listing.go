package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/housemarket/browse-service/internal/entity"
	"github.com/housemarket/browse-service/internal/port/repository"
	"go.uber.org/zap"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrForbidden       = errors.New("user not authorized to perform this action")
	ErrInvalidListing  = errors.New("invalid listing data")
)

const (
	listingNameMinLen = 10
	listingNameMaxLen = 32
	listingMaxImages  = 6
)

type ListingInput struct {
	Type            entity.ListingType
	Name            string
	Address         string
	RegularPrice    float64
	Offer           bool
	DiscountedPrice float64
	Bedrooms        int
	Bathrooms       int
	Parking         bool
	Furnished       bool
	ImgURLs         []string
	Geolocation     *entity.Geolocation
	Contact         string
}

type ListingUseCase struct {
	repo   repository.ListingRepository
	logger *zap.Logger
}

func NewListingUseCase(repo repository.ListingRepository, log *zap.Logger) *ListingUseCase {
	return &ListingUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *ListingUseCase) Create(ctx context.Context, userID string, in ListingInput) (*entity.Listing, error) {
	if err := validateListingInput(in); err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		Type:            in.Type,
		Name:            in.Name,
		Address:         in.Address,
		RegularPrice:    in.RegularPrice,
		Offer:           in.Offer,
		DiscountedPrice: in.DiscountedPrice,
		Bedrooms:        in.Bedrooms,
		Bathrooms:       in.Bathrooms,
		Parking:         in.Parking,
		Furnished:       in.Furnished,
		ImgURLs:         in.ImgURLs,
		Geolocation:     in.Geolocation,
		Contact:         in.Contact,
		UserRef:         userID,
		Timestamp:       time.Now(),
	}
	if !listing.Offer {
		listing.DiscountedPrice = 0
	}

	id, err := uc.repo.Create(ctx, listing)
	if err != nil {
		uc.logger.Error("ListingUseCase.Create: failed to create listing",
			zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.Create: %w", err)
	}
	listing.ID = id
	return listing, nil
}

func (uc *ListingUseCase) Update(ctx context.Context, id, userID string, in ListingInput) (*entity.Listing, error) {
	if err := validateListingInput(in); err != nil {
		return nil, err
	}

	listing, err := uc.getOwned(ctx, id, userID, "Update")
	if err != nil {
		return nil, err
	}

	listing.Type = in.Type
	listing.Name = in.Name
	listing.Address = in.Address
	listing.RegularPrice = in.RegularPrice
	listing.Offer = in.Offer
	listing.DiscountedPrice = in.DiscountedPrice
	listing.Bedrooms = in.Bedrooms
	listing.Bathrooms = in.Bathrooms
	listing.Parking = in.Parking
	listing.Furnished = in.Furnished
	listing.ImgURLs = in.ImgURLs
	listing.Geolocation = in.Geolocation
	listing.Contact = in.Contact
	if !listing.Offer {
		listing.DiscountedPrice = 0
	}

	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("ListingUseCase.Update: failed to update listing",
			zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.Update: %w", err)
	}
	return listing, nil
}

func (uc *ListingUseCase) Delete(ctx context.Context, id, userID string) error {
	if _, err := uc.getOwned(ctx, id, userID, "Delete"); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("ListingUseCase.Delete: failed to delete listing",
			zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("ListingUseCase.Delete: %w", err)
	}
	return nil
}

func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		uc.logger.Error("ListingUseCase.GetByID: failed to fetch listing",
			zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.GetByID: %w", err)
	}
	return listing, nil
}

// GetByIDs hydrates a set of listing ids, e.g. the favorite set. Ids that no
// longer resolve are silently dropped.
func (uc *ListingUseCase) GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	if len(ids) == 0 {
		return []*entity.Listing{}, nil
	}
	listings, err := uc.repo.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("ListingUseCase.GetByIDs: failed to fetch listings", zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.GetByIDs: %w", err)
	}
	return listings, nil
}

func (uc *ListingUseCase) getOwned(ctx context.Context, id, userID, op string) (*entity.Listing, error) {
	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		uc.logger.Error("ListingUseCase."+op+": failed to fetch listing",
			zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("ListingUseCase.%s: %w", op, err)
	}
	if listing.UserRef != userID {
		uc.logger.Warn("ListingUseCase."+op+": forbidden",
			zap.String("listing_id", id),
			zap.String("owner_id", listing.UserRef),
			zap.String("user_id", userID))
		return nil, ErrForbidden
	}
	return listing, nil
}

func validateListingInput(in ListingInput) error {
	if in.Type != entity.ListingTypeRent && in.Type != entity.ListingTypeSale {
		return fmt.Errorf("%w: type must be rent or sale", ErrInvalidListing)
	}
	if n := utf8.RuneCountInString(in.Name); n < listingNameMinLen || n > listingNameMaxLen {
		return fmt.Errorf("%w: name must be %d-%d characters", ErrInvalidListing, listingNameMinLen, listingNameMaxLen)
	}
	if in.RegularPrice <= 0 {
		return fmt.Errorf("%w: regular price must be positive", ErrInvalidListing)
	}
	if in.Offer && (in.DiscountedPrice <= 0 || in.DiscountedPrice >= in.RegularPrice) {
		return fmt.Errorf("%w: discounted price must be positive and below the regular price", ErrInvalidListing)
	}
	if in.Bedrooms <= 0 || in.Bathrooms <= 0 {
		return fmt.Errorf("%w: bedrooms and bathrooms must be positive", ErrInvalidListing)
	}
	if len(in.ImgURLs) == 0 || len(in.ImgURLs) > listingMaxImages {
		return fmt.Errorf("%w: between 1 and %d images are required", ErrInvalidListing, listingMaxImages)
	}
	return nil
}
