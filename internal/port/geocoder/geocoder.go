package geocoder

import (
	"context"

	"github.com/housemarket/browse-service/internal/entity"
)

// Geocoder resolves a free-text query into candidate addresses, ordered by
// relevance, at most limit results.
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]*entity.AddressSuggestion, error)
}
