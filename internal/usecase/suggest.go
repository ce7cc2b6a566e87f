package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/housemarket/browse-service/internal/entity"
	"github.com/housemarket/browse-service/internal/port/geocoder"
	"go.uber.org/zap"
)

const (
	minSuggestQueryLen = 2
	maxSuggestions     = 5

	shortLabelMaxLen      = 55
	shortLabelTruncateLen = 52
	displayNameFallback   = 50
)

type SuggestUseCase struct {
	geo    geocoder.Geocoder
	logger *zap.Logger
}

func NewSuggestUseCase(geo geocoder.Geocoder, log *zap.Logger) *SuggestUseCase {
	return &SuggestUseCase{
		geo:    geo,
		logger: log,
	}
}

// Suggest resolves a free-text query into at most five labeled address
// candidates. Queries shorter than two characters after trimming short-circuit
// without an outbound call, and any lookup failure degrades to an empty result
// rather than an error.
func (uc *SuggestUseCase) Suggest(ctx context.Context, query string) []*entity.AddressSuggestion {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minSuggestQueryLen {
		return []*entity.AddressSuggestion{}
	}

	results, err := uc.geo.Search(ctx, q, maxSuggestions)
	if err != nil {
		uc.logger.Warn("SuggestUseCase.Suggest: geocoder lookup failed",
			zap.String("query", q), zap.Error(err))
		return []*entity.AddressSuggestion{}
	}
	if len(results) > maxSuggestions {
		results = results[:maxSuggestions]
	}

	for _, s := range results {
		s.ShortLabel = FormatShortLabel(s)
	}
	return results
}

// FormatShortLabel builds a short, human-readable label from a suggestion's
// structured address: one area token, one city token and one region token,
// skipping tokens identical to the previously chosen one. Labels longer than
// 55 characters are truncated with an ellipsis; suggestions without a
// structured breakdown fall back to a prefix of the full display name.
func FormatShortLabel(s *entity.AddressSuggestion) string {
	addr := s.Address
	if addr == nil {
		return firstRunes(s.DisplayName, displayNameFallback)
	}

	area := firstNonEmpty(addr.Suburb, addr.Neighbourhood, addr.Village, addr.Road, addr.Quarter, addr.Locality)
	city := firstNonEmpty(addr.City, addr.Town, addr.Municipality, addr.County)
	region := firstNonEmpty(addr.State, addr.Country)

	var parts []string
	if area != "" && area != city {
		parts = append(parts, area)
	}
	if city != "" && (len(parts) == 0 || parts[len(parts)-1] != city) {
		parts = append(parts, city)
	}
	if region != "" && (len(parts) == 0 || parts[len(parts)-1] != region) {
		parts = append(parts, region)
	}

	short := strings.Join(parts, ", ")
	if short == "" {
		return firstRunes(s.DisplayName, displayNameFallback)
	}
	if utf8.RuneCountInString(short) > shortLabelMaxLen {
		return firstRunes(short, shortLabelTruncateLen) + "…"
	}
	return short
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
