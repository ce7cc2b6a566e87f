package usecase

import (
	"context"
	"fmt"

	"github.com/housemarket/browse-service/internal/entity"
	"github.com/housemarket/browse-service/internal/port/repository"
	"go.uber.org/zap"
)

const (
	// The first fetch is deliberately larger than later pages so that
	// client-side filtering still yields a reasonably full screen before the
	// user has to paginate.
	initialFetchLimit = 50
	fetchMoreLimit    = 12
)

// Page is a snapshot of the paginator state after a fetch.
type Page struct {
	Items     []*entity.Listing
	Cursor    *repository.Cursor
	Exhausted bool
}

// ListingPaginator accumulates timestamp-descending pages of listings for one
// query context. Items only ever grow; a failed fetch leaves the state
// untouched so the caller can retry.
type ListingPaginator struct {
	repo   repository.ListingRepository
	logger *zap.Logger
	query  repository.ListingQuery

	items     []*entity.Listing
	cursor    *repository.Cursor
	exhausted bool
}

func NewListingPaginator(repo repository.ListingRepository, log *zap.Logger, query repository.ListingQuery) *ListingPaginator {
	return &ListingPaginator{
		repo:   repo,
		logger: log,
		query:  query,
	}
}

// InitialLoad fetches the first batch for the query context, discarding any
// previously accumulated state.
func (p *ListingPaginator) InitialLoad(ctx context.Context) (Page, error) {
	fetched, err := p.repo.FindPage(ctx, p.query, nil, initialFetchLimit)
	if err != nil {
		p.logger.Error("ListingPaginator.InitialLoad: fetch failed",
			zap.Any("query", p.query), zap.Error(err))
		return p.snapshot(), fmt.Errorf("ListingPaginator.InitialLoad: %w", err)
	}

	p.items = fetched
	p.cursor = cursorOf(fetched)
	p.exhausted = int64(len(fetched)) < initialFetchLimit
	return p.snapshot(), nil
}

// LoadMore fetches the next page strictly after the current cursor and
// appends it. It is a no-op when nothing has been loaded yet or the query is
// exhausted.
func (p *ListingPaginator) LoadMore(ctx context.Context) (Page, error) {
	if p.cursor == nil || p.exhausted {
		return p.snapshot(), nil
	}

	fetched, err := p.repo.FindPage(ctx, p.query, p.cursor, fetchMoreLimit)
	if err != nil {
		p.logger.Error("ListingPaginator.LoadMore: fetch failed",
			zap.Any("query", p.query), zap.Error(err))
		return p.snapshot(), fmt.Errorf("ListingPaginator.LoadMore: %w", err)
	}

	p.items = append(p.items, fetched...)
	if c := cursorOf(fetched); c != nil {
		p.cursor = c
	}
	p.exhausted = int64(len(fetched)) < fetchMoreLimit
	return p.snapshot(), nil
}

// ResumeFrom seeds the cursor so that LoadMore continues a pagination whose
// cursor was handed to a stateless caller.
func (p *ListingPaginator) ResumeFrom(cursor *repository.Cursor) {
	p.items = nil
	p.cursor = cursor
	p.exhausted = cursor == nil
}

// Reset drops all state and switches to a new query context, as happens when
// the browsed category changes.
func (p *ListingPaginator) Reset(query repository.ListingQuery) {
	p.query = query
	p.items = nil
	p.cursor = nil
	p.exhausted = false
}

func (p *ListingPaginator) Items() []*entity.Listing {
	return p.items
}

func (p *ListingPaginator) snapshot() Page {
	return Page{
		Items:     p.items,
		Cursor:    p.cursor,
		Exhausted: p.exhausted,
	}
}

func cursorOf(listings []*entity.Listing) *repository.Cursor {
	if len(listings) == 0 {
		return nil
	}
	last := listings[len(listings)-1]
	return &repository.Cursor{Timestamp: last.Timestamp, ID: last.ID}
}
