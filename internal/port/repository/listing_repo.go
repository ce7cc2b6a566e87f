package repository

import (
	"context"
	"errors"
	"time"

	"github.com/housemarket/browse-service/internal/entity"
)

var ErrNotFound = errors.New("listing not found")

// Cursor marks the last item of a fetched page. Pages are ordered by
// timestamp descending with the document id as tiebreak, so a cursor is the
// (timestamp, id) pair of the last listing returned.
type Cursor struct {
	Timestamp time.Time
	ID        string
}

// ListingQuery narrows a page fetch to a single browse context: a category,
// the offers screen, or one user's own listings. Zero values mean "any".
type ListingQuery struct {
	Type      entity.ListingType
	OfferOnly bool
	UserRef   string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error)
	// FindPage returns up to limit listings matching query, ordered by
	// timestamp descending, strictly after the given cursor (nil = from the
	// top).
	FindPage(ctx context.Context, query ListingQuery, after *Cursor, limit int64) ([]*entity.Listing, error)
}
