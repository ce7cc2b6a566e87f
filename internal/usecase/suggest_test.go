package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/housemarket/browse-service/internal/entity"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubGeocoder lets tests script lookups and count outbound calls.
type stubGeocoder struct {
	mu       sync.Mutex
	calls    int
	searchFn func(ctx context.Context, query string, limit int) ([]*entity.AddressSuggestion, error)
}

func (s *stubGeocoder) Search(ctx context.Context, query string, limit int) ([]*entity.AddressSuggestion, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.searchFn == nil {
		return []*entity.AddressSuggestion{}, nil
	}
	return s.searchFn(ctx, query, limit)
}

func (s *stubGeocoder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSuggest_ShortQuerySkipsLookup(t *testing.T) {
	geo := &stubGeocoder{}
	uc := NewSuggestUseCase(geo, zap.NewNop())

	for _, q := range []string{"", "a", "  a  ", " "} {
		results := uc.Suggest(context.Background(), q)
		assert.NotNil(t, results)
		assert.Empty(t, results, "query %q", q)
	}
	assert.Equal(t, 0, geo.callCount())
}

func TestSuggest_LookupFailureDegradesToEmpty(t *testing.T) {
	geo := &stubGeocoder{
		searchFn: func(context.Context, string, int) ([]*entity.AddressSuggestion, error) {
			return nil, errors.New("network down")
		},
	}
	uc := NewSuggestUseCase(geo, zap.NewNop())

	results := uc.Suggest(context.Background(), "lahore")
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSuggest_CapsResultsAndLabelsThem(t *testing.T) {
	many := make([]*entity.AddressSuggestion, 8)
	for i := range many {
		many[i] = &entity.AddressSuggestion{
			DisplayName: "Somewhere far away",
			Address:     &entity.AddressDetails{Suburb: "Gulberg", City: "Lahore", State: "Punjab"},
		}
	}
	geo := &stubGeocoder{
		searchFn: func(_ context.Context, _ string, limit int) ([]*entity.AddressSuggestion, error) {
			assert.Equal(t, 5, limit)
			return many, nil
		},
	}
	uc := NewSuggestUseCase(geo, zap.NewNop())

	results := uc.Suggest(context.Background(), "  gulberg ")
	assert.Len(t, results, 5)
	for _, s := range results {
		assert.Equal(t, "Gulberg, Lahore, Punjab", s.ShortLabel)
	}
}

func TestFormatShortLabel(t *testing.T) {
	tests := []struct {
		name string
		in   *entity.AddressSuggestion
		want string
	}{
		{
			name: "area city region",
			in: &entity.AddressSuggestion{
				Address: &entity.AddressDetails{Suburb: "Gulberg", City: "Lahore", State: "Punjab"},
			},
			want: "Gulberg, Lahore, Punjab",
		},
		{
			name: "area equal to city is skipped",
			in: &entity.AddressSuggestion{
				Address: &entity.AddressDetails{Suburb: "Lahore", City: "Lahore", State: "Punjab"},
			},
			want: "Lahore, Punjab",
		},
		{
			name: "region equal to city is skipped",
			in: &entity.AddressSuggestion{
				Address: &entity.AddressDetails{City: "Luxembourg", Country: "Luxembourg"},
			},
			want: "Luxembourg",
		},
		{
			name: "token priority within groups",
			in: &entity.AddressSuggestion{
				Address: &entity.AddressDetails{Neighbourhood: "Old Town", Town: "Gdansk", Country: "Poland"},
			},
			want: "Old Town, Gdansk, Poland",
		},
		{
			name: "no structured breakdown falls back to display name",
			in: &entity.AddressSuggestion{
				DisplayName: strings.Repeat("x", 80),
			},
			want: strings.Repeat("x", 50),
		},
		{
			name: "empty breakdown falls back to display name",
			in: &entity.AddressSuggestion{
				DisplayName: "Short Display",
				Address:     &entity.AddressDetails{},
			},
			want: "Short Display",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatShortLabel(tt.in))
		})
	}
}

func TestFormatShortLabel_TruncatesLongLabels(t *testing.T) {
	in := &entity.AddressSuggestion{
		Address: &entity.AddressDetails{
			Suburb: strings.Repeat("a", 30),
			City:   strings.Repeat("b", 30),
			State:  strings.Repeat("c", 30),
		},
	}

	got := FormatShortLabel(in)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, 53, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("a", 30)+", "+strings.Repeat("b", 20), strings.TrimSuffix(got, "…"))
}
