package fakeapi

import (
	"net/http"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/pkg/httputil"
)

type favoriteRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// ListWishlist handles GET /wishlist.
func (h *Handler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, "", h.store.Wishlist(userID(r)))
}

// AddToWishlist handles POST /wishlist. Adding a product twice is not an
// error.
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var in favoriteRequest
	if !h.decode(w, r, &in) {
		return
	}
	added, err := h.store.AddFavorite(userID(r), in.ProductID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !added {
		httputil.WriteMessage(w, http.StatusOK, "Product already in wishlist")
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, "Added to wishlist")
}

// RemoveFromWishlist handles DELETE /wishlist/{productId}.
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, param(r, "productId"))
	if !ok {
		return
	}
	if err := h.store.RemoveFavorite(userID(r), productID); err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Removed from wishlist")
}

// ToggleWishlist handles POST /wishlist/toggle.
func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	var in favoriteRequest
	if !h.decode(w, r, &in) {
		return
	}
	on, err := h.store.ToggleFavorite(userID(r), in.ProductID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	message := "Removed from wishlist"
	if on {
		message = "Added to wishlist"
	}
	httputil.WriteData(w, http.StatusOK, message, domain.FavoriteStatus{ProductID: in.ProductID, IsFavorite: on})
}

// CheckWishlist handles GET /wishlist/check/{productId}.
func (h *Handler) CheckWishlist(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, param(r, "productId"))
	if !ok {
		return
	}
	httputil.WriteData(w, http.StatusOK, "", domain.FavoriteStatus{
		ProductID:  productID,
		IsFavorite: h.store.IsFavorite(userID(r), productID),
	})
}
