package wishlist

import (
	"context"
	"net/url"
	"strconv"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/pkg/envelope"
)

// API is the part of api.Client the remote needs.
type API interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
	Post(ctx context.Context, path string, body any) ([]byte, error)
	Delete(ctx context.Context, path string) ([]byte, error)
}

// HTTPRemote talks to the backend's /wishlist endpoints.
type HTTPRemote struct {
	api API
}

// NewHTTPRemote creates a Remote backed by the marketplace API.
func NewHTTPRemote(api API) *HTTPRemote {
	return &HTTPRemote{api: api}
}

type productRef struct {
	ProductID int64 `json:"product_id"`
}

func (r *HTTPRemote) List(ctx context.Context) ([]domain.WishlistProduct, error) {
	body, err := r.api.Get(ctx, "/wishlist", nil)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[domain.WishlistProduct](body, "wishlist", "items").Unwrap()
}

func (r *HTTPRemote) Add(ctx context.Context, productID int64) error {
	body, err := r.api.Post(ctx, "/wishlist", productRef{ProductID: productID})
	if err != nil {
		return err
	}
	return envelope.Message(body).Err()
}

func (r *HTTPRemote) Remove(ctx context.Context, productID int64) error {
	body, err := r.api.Delete(ctx, "/wishlist/"+strconv.FormatInt(productID, 10))
	if err != nil {
		return err
	}
	return envelope.Message(body).Err()
}

func (r *HTTPRemote) Toggle(ctx context.Context, productID int64) (bool, error) {
	body, err := r.api.Post(ctx, "/wishlist/toggle", productRef{ProductID: productID})
	if err != nil {
		return false, err
	}
	status, err := envelope.Decode[domain.FavoriteStatus](body).Unwrap()
	return status.IsFavorite, err
}

func (r *HTTPRemote) Check(ctx context.Context, productID int64) (bool, error) {
	body, err := r.api.Get(ctx, "/wishlist/check/"+strconv.FormatInt(productID, 10), nil)
	if err != nil {
		return false, err
	}
	status, err := envelope.Decode[domain.FavoriteStatus](body).Unwrap()
	return status.IsFavorite, err
}
