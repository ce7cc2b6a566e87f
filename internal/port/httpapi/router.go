package httpapi

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func NewRouter(h *Handler, jwtSecret string, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))

	r.Get("/healthz", h.HandleHealth)

	// Public browse surface. Auth is optional on the listing detail page so a
	// signed-in viewer gets a recently-viewed entry recorded.
	r.Group(func(r chi.Router) {
		r.Use(JWTAuth(jwtSecret, false))

		r.Get("/api/home", h.HandleHome)
		r.Get("/api/categories/{categoryName}/listings", h.HandleCategoryListings)
		r.Get("/api/offers/listings", h.HandleOfferListings)
		r.Get("/api/listings/{id}", h.HandleGetListing)
		r.Get("/api/suggestions", h.HandleSuggestions)
	})

	r.Group(func(r chi.Router) {
		r.Use(JWTAuth(jwtSecret, true))

		r.Get("/api/users/me/listings", h.HandleMyListings)
		r.Post("/api/listings", h.HandleCreateListing)
		r.Put("/api/listings/{id}", h.HandleUpdateListing)
		r.Delete("/api/listings/{id}", h.HandleDeleteListing)

		r.Post("/api/favorites/{id}/toggle", h.HandleToggleFavorite)
		r.Get("/api/favorites", h.HandleGetFavorites)
		r.Get("/api/recently-viewed", h.HandleRecentlyViewed)
	})

	return r
}
