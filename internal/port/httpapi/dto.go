package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/housemarket/browse-service/internal/entity"
	"github.com/housemarket/browse-service/internal/port/repository"
	"github.com/housemarket/browse-service/internal/usecase"
)

type geolocationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type listingResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	RegularPrice    float64         `json:"regularPrice"`
	Offer           bool            `json:"offer"`
	DiscountedPrice float64         `json:"discountedPrice,omitempty"`
	Bedrooms        int             `json:"bedrooms"`
	Bathrooms       int             `json:"bathrooms"`
	Parking         bool            `json:"parking"`
	Furnished       bool            `json:"furnished"`
	ImgURLs         []string        `json:"imgUrls"`
	Geolocation     *geolocationDTO `json:"geolocation,omitempty"`
	Contact         string          `json:"contact,omitempty"`
	UserRef         string          `json:"userRef"`
	Timestamp       time.Time       `json:"timestamp"`
}

func toListingResponse(l *entity.Listing) listingResponse {
	resp := listingResponse{
		ID:              l.ID,
		Type:            string(l.Type),
		Name:            l.Name,
		Address:         l.Address,
		RegularPrice:    l.RegularPrice,
		Offer:           l.Offer,
		DiscountedPrice: l.DiscountedPrice,
		Bedrooms:        l.Bedrooms,
		Bathrooms:       l.Bathrooms,
		Parking:         l.Parking,
		Furnished:       l.Furnished,
		ImgURLs:         l.ImgURLs,
		Contact:         l.Contact,
		UserRef:         l.UserRef,
		Timestamp:       l.Timestamp,
	}
	if l.Geolocation != nil {
		resp.Geolocation = &geolocationDTO{Lat: l.Geolocation.Lat, Lng: l.Geolocation.Lng}
	}
	return resp
}

func toListingResponses(listings []*entity.Listing) []listingResponse {
	out := make([]listingResponse, len(listings))
	for i, l := range listings {
		out[i] = toListingResponse(l)
	}
	return out
}

type listingRequest struct {
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	RegularPrice    float64         `json:"regularPrice"`
	Offer           bool            `json:"offer"`
	DiscountedPrice float64         `json:"discountedPrice"`
	Bedrooms        int             `json:"bedrooms"`
	Bathrooms       int             `json:"bathrooms"`
	Parking         bool            `json:"parking"`
	Furnished       bool            `json:"furnished"`
	ImgURLs         []string        `json:"imgUrls"`
	Geolocation     *geolocationDTO `json:"geolocation"`
	Contact         string          `json:"contact"`
}

func (req *listingRequest) toInput() usecase.ListingInput {
	in := usecase.ListingInput{
		Type:            entity.ListingType(req.Type),
		Name:            req.Name,
		Address:         req.Address,
		RegularPrice:    req.RegularPrice,
		Offer:           req.Offer,
		DiscountedPrice: req.DiscountedPrice,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		Parking:         req.Parking,
		Furnished:       req.Furnished,
		ImgURLs:         req.ImgURLs,
		Contact:         req.Contact,
	}
	if req.Geolocation != nil {
		in.Geolocation = &entity.Geolocation{Lat: req.Geolocation.Lat, Lng: req.Geolocation.Lng}
	}
	return in
}

type cursorDTO struct {
	Timestamp int64  `json:"timestamp"`
	ID        string `json:"id"`
}

// pageResponse carries one filtered page plus the raw-pagination state the
// client hands back to continue.
type pageResponse struct {
	Listings   []listingResponse `json:"listings"`
	NextCursor *cursorDTO        `json:"nextCursor,omitempty"`
	Exhausted  bool              `json:"exhausted"`
}

func toPageResponse(filtered []*entity.Listing, page usecase.Page) pageResponse {
	resp := pageResponse{
		Listings:  toListingResponses(filtered),
		Exhausted: page.Exhausted,
	}
	if page.Cursor != nil {
		resp.NextCursor = &cursorDTO{
			Timestamp: page.Cursor.Timestamp.UnixMilli(),
			ID:        page.Cursor.ID,
		}
	}
	return resp
}

// filtersFromQuery maps browse query parameters onto a FilterState. Unknown or
// empty values fall back to the defaults; numeric fields stay raw strings and
// are coerced by the filter engine.
func filtersFromQuery(q url.Values) usecase.FilterState {
	filters := usecase.DefaultFilters()
	if v := q.Get("type"); v != "" {
		filters.Type = v
	}
	filters.Search = q.Get("search")
	filters.MinPrice = q.Get("minPrice")
	filters.MaxPrice = q.Get("maxPrice")
	filters.MinBeds = q.Get("minBeds")
	filters.MinBaths = q.Get("minBaths")
	if v := usecase.TriState(q.Get("parking")); v == usecase.TriYes || v == usecase.TriNo {
		filters.Parking = v
	}
	if v := usecase.TriState(q.Get("furnished")); v == usecase.TriYes || v == usecase.TriNo {
		filters.Furnished = v
	}
	if v := usecase.SortOrder(q.Get("sort")); v == usecase.SortPriceAsc || v == usecase.SortPriceDesc || v == usecase.SortNewest {
		filters.Sort = v
	}
	return filters
}

func cursorFromQuery(q url.Values) *repository.Cursor {
	ts := q.Get("afterTimestamp")
	id := q.Get("afterId")
	if ts == "" || id == "" {
		return nil
	}
	millis, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil
	}
	return &repository.Cursor{
		Timestamp: time.UnixMilli(millis),
		ID:        id,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
