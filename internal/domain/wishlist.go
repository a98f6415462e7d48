package domain

import "time"

// WishlistProduct is one favorited product with its details.
type WishlistProduct struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteStatus is the server's answer to a toggle or check.
type FavoriteStatus struct {
	ProductID  int64 `json:"product_id"`
	IsFavorite bool  `json:"is_favorite"`
}
