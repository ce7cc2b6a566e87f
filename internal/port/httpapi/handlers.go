package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/housemarket/browse-service/internal/entity"
	"github.com/housemarket/browse-service/internal/port/repository"
	"github.com/housemarket/browse-service/internal/usecase"
)

type Handler struct {
	listings       *usecase.ListingUseCase
	home           *usecase.HomeUseCase
	suggest        *usecase.SuggestUseCase
	favorites      *usecase.FavoritesUseCase
	recentlyViewed *usecase.RecentlyViewedUseCase
	repo           repository.ListingRepository
	logger         *zap.Logger
}

func NewHandler(
	listings *usecase.ListingUseCase,
	home *usecase.HomeUseCase,
	suggest *usecase.SuggestUseCase,
	favorites *usecase.FavoritesUseCase,
	recentlyViewed *usecase.RecentlyViewedUseCase,
	repo repository.ListingRepository,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		listings:       listings,
		home:           home,
		suggest:        suggest,
		favorites:      favorites,
		recentlyViewed: recentlyViewed,
		repo:           repo,
		logger:         logger,
	}
}

// browse runs one pagination step for the given query context and returns the
// filtered view of the fetched page. The client holds the cursor between
// requests; without one the larger initial batch is fetched.
func (h *Handler) browse(w http.ResponseWriter, r *http.Request, query repository.ListingQuery) {
	filters := filtersFromQuery(r.URL.Query())
	paginator := usecase.NewListingPaginator(h.repo, h.logger, query)

	var (
		page usecase.Page
		err  error
	)
	if cursor := cursorFromQuery(r.URL.Query()); cursor != nil {
		paginator.ResumeFrom(cursor)
		page, err = paginator.LoadMore(r.Context())
	} else {
		page, err = paginator.InitialLoad(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "could not fetch listings")
		return
	}

	filtered := usecase.ApplyFilters(page.Items, filters)
	writeJSON(w, http.StatusOK, toPageResponse(filtered, page))
}

func (h *Handler) HandleCategoryListings(w http.ResponseWriter, r *http.Request) {
	category := entity.ListingType(chi.URLParam(r, "categoryName"))
	if category != entity.ListingTypeRent && category != entity.ListingTypeSale {
		writeError(w, http.StatusNotFound, "unknown category")
		return
	}
	h.browse(w, r, repository.ListingQuery{Type: category})
}

func (h *Handler) HandleOfferListings(w http.ResponseWriter, r *http.Request) {
	h.browse(w, r, repository.ListingQuery{OfferOnly: true})
}

func (h *Handler) HandleMyListings(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	h.browse(w, r, repository.ListingQuery{UserRef: userID})
}

func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	view, err := h.home.Compose(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, http.StatusBadGateway, "could not fetch listings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"offers": toListingResponses(view.Offers),
		"rent":   toListingResponses(view.Rent),
		"sale":   toListingResponses(view.Sale),
	})
}

func (h *Handler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrListingNotFound) {
			writeError(w, http.StatusNotFound, "listing not found")
			return
		}
		writeError(w, http.StatusBadGateway, "could not fetch listing")
		return
	}

	if userID := UserIDFromContext(r.Context()); userID != "" {
		entry := usecase.RecentlyViewedEntry{
			ID:   listing.ID,
			Type: string(listing.Type),
			Name: listing.Name,
		}
		if err := h.recentlyViewed.Add(r.Context(), userID, entry); err != nil {
			h.logger.Warn("failed to record recently viewed listing",
				zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *Handler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.listings.Create(r.Context(), UserIDFromContext(r.Context()), req.toInput())
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidListing) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, "could not create listing")
		return
	}
	writeJSON(w, http.StatusCreated, toListingResponse(listing))
}

func (h *Handler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	listing, err := h.listings.Update(r.Context(), id, UserIDFromContext(r.Context()), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrListingNotFound):
			writeError(w, http.StatusNotFound, "listing not found")
		case errors.Is(err, usecase.ErrForbidden):
			writeError(w, http.StatusForbidden, "not your listing")
		case errors.Is(err, usecase.ErrInvalidListing):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadGateway, "could not update listing")
		}
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *Handler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.listings.Delete(r.Context(), id, UserIDFromContext(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrListingNotFound):
			writeError(w, http.StatusNotFound, "listing not found")
		case errors.Is(err, usecase.ErrForbidden):
			writeError(w, http.StatusForbidden, "not your listing")
		default:
			writeError(w, http.StatusBadGateway, "could not delete listing")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	results := h.suggest.Suggest(r.Context(), r.URL.Query().Get("q"))

	type suggestionDTO struct {
		ID          string `json:"id"`
		ShortLabel  string `json:"shortLabel"`
		DisplayName string `json:"displayName"`
		Lat         string `json:"lat,omitempty"`
		Lon         string `json:"lon,omitempty"`
	}
	out := make([]suggestionDTO, len(results))
	for i, s := range results {
		out[i] = suggestionDTO{
			ID:          s.PlaceID,
			ShortLabel:  s.ShortLabel,
			DisplayName: s.DisplayName,
			Lat:         s.Lat,
			Lon:         s.Lon,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	listingID := chi.URLParam(r, "id")

	favorite, err := h.favorites.Toggle(r.Context(), userID, listingID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "could not update favorites")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorite": favorite})
}

func (h *Handler) HandleGetFavorites(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	ids := h.favorites.List(r.Context(), userID)

	listings, err := h.listings.GetByIDs(r.Context(), ids)
	if err != nil {
		writeError(w, http.StatusBadGateway, "could not fetch favorites")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ids":      ids,
		"listings": toListingResponses(listings),
	})
}

func (h *Handler) HandleRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.recentlyViewed.List(r.Context(), userID))
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
