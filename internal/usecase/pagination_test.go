package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/housemarket/browse-service/internal/entity"
	"github.com/housemarket/browse-service/internal/port/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	args := m.Called(ctx, listing)
	return args.String(0), args.Error(1)
}
func (m *MockListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}
func (m *MockListingRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}
func (m *MockListingRepository) FindPage(ctx context.Context, query repository.ListingQuery, after *repository.Cursor, limit int64) ([]*entity.Listing, error) {
	args := m.Called(ctx, query, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func makeBatch(prefix string, n int, newest time.Time) []*entity.Listing {
	batch := make([]*entity.Listing, n)
	for i := 0; i < n; i++ {
		batch[i] = &entity.Listing{
			ID:        fmt.Sprintf("%s-%d", prefix, i),
			Type:      entity.ListingTypeRent,
			Timestamp: newest.Add(-time.Duration(i) * time.Minute),
		}
	}
	return batch
}

func TestListingPaginator_InitialLoadFullPage(t *testing.T) {
	repo := new(MockListingRepository)
	query := repository.ListingQuery{Type: entity.ListingTypeRent}
	newest := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	batch := makeBatch("a", 50, newest)

	repo.On("FindPage", mock.Anything, query, (*repository.Cursor)(nil), int64(50)).Return(batch, nil)

	p := NewListingPaginator(repo, zap.NewNop(), query)
	page, err := p.InitialLoad(context.Background())

	assert.NoError(t, err)
	assert.Len(t, page.Items, 50)
	assert.False(t, page.Exhausted)
	assert.Equal(t, "a-49", page.Cursor.ID)
	assert.Equal(t, batch[49].Timestamp, page.Cursor.Timestamp)
}

func TestListingPaginator_InitialLoadShortPageExhausts(t *testing.T) {
	repo := new(MockListingRepository)
	query := repository.ListingQuery{OfferOnly: true}
	batch := makeBatch("a", 3, time.Now())

	repo.On("FindPage", mock.Anything, query, (*repository.Cursor)(nil), int64(50)).Return(batch, nil)

	p := NewListingPaginator(repo, zap.NewNop(), query)
	page, err := p.InitialLoad(context.Background())

	assert.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.True(t, page.Exhausted)
	assert.Equal(t, "a-2", page.Cursor.ID)
}

func TestListingPaginator_InitialLoadEmpty(t *testing.T) {
	repo := new(MockListingRepository)
	query := repository.ListingQuery{}

	repo.On("FindPage", mock.Anything, query, (*repository.Cursor)(nil), int64(50)).Return([]*entity.Listing{}, nil)

	p := NewListingPaginator(repo, zap.NewNop(), query)
	page, err := p.InitialLoad(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.True(t, page.Exhausted)
	assert.Nil(t, page.Cursor)

	// Nothing to continue from.
	page, err = p.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, page.Items)
	repo.AssertNumberOfCalls(t, "FindPage", 1)
}

func TestListingPaginator_LoadMoreAppendsAfterCursor(t *testing.T) {
	repo := new(MockListingRepository)
	query := repository.ListingQuery{Type: entity.ListingTypeSale}
	newest := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := makeBatch("a", 50, newest)
	second := makeBatch("b", 12, newest.Add(-time.Hour))

	firstCursor := &repository.Cursor{Timestamp: first[49].Timestamp, ID: "a-49"}
	repo.On("FindPage", mock.Anything, query, (*repository.Cursor)(nil), int64(50)).Return(first, nil)
	repo.On("FindPage", mock.Anything, query, firstCursor, int64(12)).Return(second, nil)

	p := NewListingPaginator(repo, zap.NewNop(), query)
	_, err := p.InitialLoad(context.Background())
	assert.NoError(t, err)

	page, err := p.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.Len(t, page.Items, 62)
	assert.Equal(t, "b-11", page.Cursor.ID)
	assert.False(t, page.Exhausted)
	repo.AssertExpectations(t)
}

func TestListingPaginator_LoadMoreNoopWhenExhausted(t *testing.T) {
	repo := new(MockListingRepository)
	query := repository.ListingQuery{}
	batch := makeBatch("a", 5, time.Now())

	repo.On("FindPage", mock.Anything, query, (*repository.Cursor)(nil), int64(50)).Return(batch, nil)

	p := NewListingPaginator(repo, zap.NewNop(), query)
	_, err := p.InitialLoad(context.Background())
	assert.NoError(t, err)

	page, err := p.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.True(t, page.Exhausted)
	repo.AssertNumberOfCalls(t, "FindPage", 1)
}

func TestListingPaginator_LoadMoreNoopBeforeInitialLoad(t *testing.T) {
	repo := new(MockListingRepository)
	p := NewListingPaginator(repo, zap.NewNop(), repository.ListingQuery{})

	page, err := p.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, page.Items)
	repo.AssertNumberOfCalls(t, "FindPage", 0)
}

func TestListingPaginator_FetchErrorLeavesStateUntouched(t *testing.T) {
	repo := new(MockListingRepository)
	query := repository.ListingQuery{}
	newest := time.Now()
	first := makeBatch("a", 50, newest)
	cursor := &repository.Cursor{Timestamp: first[49].Timestamp, ID: "a-49"}

	repo.On("FindPage", mock.Anything, query, (*repository.Cursor)(nil), int64(50)).Return(first, nil)
	repo.On("FindPage", mock.Anything, query, cursor, int64(12)).Return(nil, errors.New("backend unavailable")).Once()
	repo.On("FindPage", mock.Anything, query, cursor, int64(12)).Return(makeBatch("b", 2, newest.Add(-time.Hour)), nil)

	p := NewListingPaginator(repo, zap.NewNop(), query)
	_, err := p.InitialLoad(context.Background())
	assert.NoError(t, err)

	page, err := p.LoadMore(context.Background())
	assert.Error(t, err)
	assert.Len(t, page.Items, 50)
	assert.Equal(t, "a-49", page.Cursor.ID)
	assert.False(t, page.Exhausted)

	// The failed fetch is retryable.
	page, err = p.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.Len(t, page.Items, 52)
	assert.True(t, page.Exhausted)
}

func TestListingPaginator_ResumeFromCursor(t *testing.T) {
	repo := new(MockListingRepository)
	query := repository.ListingQuery{Type: entity.ListingTypeRent}
	cursor := &repository.Cursor{Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), ID: "a-49"}
	batch := makeBatch("b", 4, cursor.Timestamp.Add(-time.Minute))

	repo.On("FindPage", mock.Anything, query, cursor, int64(12)).Return(batch, nil)

	p := NewListingPaginator(repo, zap.NewNop(), query)
	p.ResumeFrom(cursor)

	page, err := p.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.Len(t, page.Items, 4)
	assert.True(t, page.Exhausted)
	assert.Equal(t, "b-3", page.Cursor.ID)
}

func TestListingPaginator_ResetSwitchesQueryContext(t *testing.T) {
	repo := new(MockListingRepository)
	rentQuery := repository.ListingQuery{Type: entity.ListingTypeRent}
	saleQuery := repository.ListingQuery{Type: entity.ListingTypeSale}

	repo.On("FindPage", mock.Anything, rentQuery, (*repository.Cursor)(nil), int64(50)).Return(makeBatch("rent", 50, time.Now()), nil)
	repo.On("FindPage", mock.Anything, saleQuery, (*repository.Cursor)(nil), int64(50)).Return(makeBatch("sale", 2, time.Now()), nil)

	p := NewListingPaginator(repo, zap.NewNop(), rentQuery)
	_, err := p.InitialLoad(context.Background())
	assert.NoError(t, err)
	assert.Len(t, p.Items(), 50)

	p.Reset(saleQuery)
	assert.Empty(t, p.Items())

	page, err := p.InitialLoad(context.Background())
	assert.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "sale-0", page.Items[0].ID)
}
